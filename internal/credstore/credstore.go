// Package credstore persists the operator's credentials between invocations.
// All operations are best-effort: callers log failures but never fail an
// in-memory state change because the disk was unavailable.
package credstore

import "github.com/posguard/licadmin/internal/domain"

type Store interface {
	SaveToken(token string) error
	// LoadToken returns "" with a nil error when no token is stored.
	LoadToken() (string, error)
	SaveUser(user *domain.User) error
	// LoadUser returns (nil, nil) when no user is stored and an error when
	// the stored user cannot be parsed.
	LoadUser() (*domain.User, error)
	Clear() error
}
