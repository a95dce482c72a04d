package domain

import "errors"

const MaxEmailLen = 254

var ErrEmailTooLong = errors.New("email too long")

// ConnID is the opaque identity of a live connection, stable for its
// lifetime.
type ConnID string

// Connection holds the per-connection ephemeral attributes declared by the
// client. Destroyed on disconnect.
type Connection struct {
	ID        ConnID `json:"id"`
	Email     string `json:"email,omitempty"`
	Available bool   `json:"available"`
}

func NewConnection(id ConnID) *Connection {
	return &Connection{ID: id}
}

func (c *Connection) SetEmail(email string) error {
	if len(email) > MaxEmailLen {
		return ErrEmailTooLong
	}
	c.Email = email
	return nil
}
