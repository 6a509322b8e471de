package auth

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned when no credential exists for a username.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateUsername is returned when registering a username that already
// exists. Registration is first-write-wins; there is no update-in-place.
var ErrDuplicateUsername = errors.New("username already exists")

// CredentialRepository provides operations on the users table. Username
// lookup is exact and case-sensitive.
type CredentialRepository interface {
	Create(ctx context.Context, cred *Credential) error
	Find(ctx context.Context, username string) (*Credential, error)
}
