// Package httpapi exposes the blog as a JSON API on a chi router.
//
// Sessions are kept in memory and addressed by the X-Session-ID header; the
// login response carries the session id and its anti-forgery token, which
// state-changing requests send back in X-CSRF-Token. The session's actor is
// placed in the request context for rbac checks. A session that sees no
// request for the configured TTL expires.
//
// Errors are JSON objects with an "error" message. Validation failures answer
// 422 with per-field messages, denied access 403, missing authentication 401
// and unexpected failures 500 without internal detail.
package httpapi
