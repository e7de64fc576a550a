package core

import "errors"

var (
	// ErrUnauthenticated marks a connection that reached the hub without an
	// identity. Such connections are closed immediately.
	ErrUnauthenticated = errors.New("unauthenticated connection")

	// ErrMalformedEvent marks a chat payload that failed schema validation.
	ErrMalformedEvent = errors.New("malformed chat event")

	// ErrIdentityMismatch marks a chat payload whose sender does not match
	// the connection's authenticated identity.
	ErrIdentityMismatch = errors.New("sender does not match connection identity")

	// ErrPresenceUnderflow marks a disconnect with no matching connect. The
	// count is left at zero; the caller reports the anomaly.
	ErrPresenceUnderflow = errors.New("presence count underflow")
)
