package collab

import "time"

// Config controls how the client connects and reconnects.
type Config struct {
	URL                  string
	AutoReconnect        bool
	ReconnectDelay       time.Duration
	MaxReconnectAttempts int
	HandshakeTimeout     time.Duration
	WriteTimeout         time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		AutoReconnect:        true,
		ReconnectDelay:       3 * time.Second,
		MaxReconnectAttempts: 5,
		HandshakeTimeout:     10 * time.Second,
		WriteTimeout:         10 * time.Second,
	}
}

// Identity supplies the user id and display name stamped onto every
// outbound message. The server trusts this identity as asserted.
type Identity interface {
	Identity() (userID int, fullName string)
}

// StaticIdentity is a fixed Identity, handy for tests and simple clients.
type StaticIdentity struct {
	ID       int
	FullName string
}

func (s StaticIdentity) Identity() (int, string) {
	return s.ID, s.FullName
}
