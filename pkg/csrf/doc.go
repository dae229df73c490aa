// Package csrf issues and checks anti-forgery tokens bound to a session.
//
// A token is created lazily the first time Generate is called for a session
// and reused until the session ends. Validate compares a submitted candidate
// against the stored token in constant time.
//
//	tok, err := csrf.Generate(sess)
//	// embed tok in the form ...
//	if !csrf.Validate(sess, r.FormValue(csrf.FieldName)) {
//	    // reject the request
//	}
//
// The package does not know how sessions are persisted; anything with Get and
// Set methods can be used. MemorySession is a ready-made implementation for
// tests and single-process tools.
package csrf
