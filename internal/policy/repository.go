package policy

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a policy record is not found.
var ErrNotFound = errors.New("policy not found")

// Repository provides CRUD operations on the policies table. Authorization
// is not a repository concern; callers decide what filter to apply and
// whether an operation is permitted before invoking it.
type Repository interface {
	Create(ctx context.Context, p *Policy) error
	GetByID(ctx context.Context, id int64) (*Policy, error)
	List(ctx context.Context, filter ListFilter) ([]Policy, error)
	Replace(ctx context.Context, id int64, name string, details *string, owner string) (*Policy, error)
	Update(ctx context.Context, id int64, fields UpdateFields) (*Policy, error)
	Delete(ctx context.Context, id int64) error
}
