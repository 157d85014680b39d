// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
)

const (
	MaxIdentityLen    = 36
	MaxDisplayNameLen = 64
)

var (
	ErrIdentityEmpty      = errors.New("identity empty")
	ErrIdentityTooLong    = errors.New("identity too long")
	ErrDisplayNameTooLong = errors.New("display name too long")
)

// Identity is the stable unique user identifier used as the addressing
// key for channels and registry entries.
type Identity string

func (id Identity) Validate() error {
	if len(id) == 0 {
		return ErrIdentityEmpty
	}
	if len(id) > MaxIdentityLen {
		return ErrIdentityTooLong
	}
	return nil
}

type User struct {
	ID          Identity `json:"id"`
	DisplayName string   `json:"name"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(id Identity, name string) (*User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if len(name) > MaxDisplayNameLen {
		return nil, ErrDisplayNameTooLong
	}
	return &User{ID: id, DisplayName: name}, nil
}
