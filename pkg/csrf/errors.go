package csrf

import "errors"

var (
	// ErrNilSession is returned when Generate is called without a session.
	ErrNilSession = errors.New("csrf: nil session")

	// ErrTokenGeneration is returned when the random source fails.
	ErrTokenGeneration = errors.New("csrf: failed to generate token")
)
