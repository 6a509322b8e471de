package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements CredentialRepository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new CredentialRepository backed by the given
// connection pool.
func NewRepository(pool *pgxpool.Pool) CredentialRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new credential record. The primary key on username
// guarantees that a concurrent duplicate registration produces exactly one
// success; the loser receives ErrDuplicateUsername.
func (r *PostgresRepository) Create(ctx context.Context, cred *Credential) error {
	query := `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, $3)`

	_, err := r.pool.Exec(ctx, query, cred.Username, cred.PasswordHash, string(cred.Role))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

// Find retrieves a credential by exact username.
func (r *PostgresRepository) Find(ctx context.Context, username string) (*Credential, error) {
	query := `
		SELECT username, password_hash, role
		FROM users
		WHERE username = $1`

	var cred Credential
	var role string
	err := r.pool.QueryRow(ctx, query, username).Scan(&cred.Username, &cred.PasswordHash, &role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}
	cred.Role = Role(role)

	return &cred, nil
}
