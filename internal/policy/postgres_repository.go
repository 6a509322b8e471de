package policy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new policy record and populates its assigned id.
func (r *PostgresRepository) Create(ctx context.Context, p *Policy) error {
	query := `
		INSERT INTO policies (name, details, owner)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query, p.Name, p.Details, p.Owner).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("inserting policy: %w", err)
	}

	return nil
}

// GetByID retrieves a single policy by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Policy, error) {
	query := `
		SELECT id, name, details, owner
		FROM policies
		WHERE id = $1`

	return r.scanOne(ctx, query, id)
}

// List retrieves policies, optionally restricted to a single owner.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]Policy, error) {
	query := `
		SELECT id, name, details, owner
		FROM policies`
	var args []any
	if filter.Owner != nil {
		query += ` WHERE owner = $1`
		args = append(args, *filter.Owner)
	}
	query += ` ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing policies: %w", err)
	}
	defer rows.Close()

	var policies []Policy
	for rows.Next() {
		var p Policy
		if err := rows.Scan(&p.ID, &p.Name, &p.Details, &p.Owner); err != nil {
			return nil, fmt.Errorf("scanning policy row: %w", err)
		}
		policies = append(policies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating policy rows: %w", err)
	}

	if policies == nil {
		policies = []Policy{}
	}

	return policies, nil
}

// Replace overwrites every mutable field of a policy, including its owner.
func (r *PostgresRepository) Replace(ctx context.Context, id int64, name string, details *string, owner string) (*Policy, error) {
	query := `
		UPDATE policies
		SET name = $1, details = $2, owner = $3
		WHERE id = $4
		RETURNING id, name, details, owner`

	return r.scanOne(ctx, query, name, details, owner, id)
}

// Update applies only the fields present in the partial update. Absent
// fields keep their prior value.
func (r *PostgresRepository) Update(ctx context.Context, id int64, fields UpdateFields) (*Policy, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if fields.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *fields.Name)
		argIdx++
	}
	if fields.Details != nil {
		setClauses = append(setClauses, fmt.Sprintf("details = $%d", argIdx))
		args = append(args, *fields.Details)
		argIdx++
	}
	if fields.Owner != nil {
		setClauses = append(setClauses, fmt.Sprintf("owner = $%d", argIdx))
		args = append(args, *fields.Owner)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE policies
		SET %s
		WHERE id = $%d
		RETURNING id, name, details, owner`,
		strings.Join(setClauses, ", "), argIdx)

	return r.scanOne(ctx, query, args...)
}

// Delete removes a policy record. Returns ErrNotFound if no row matched.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM policies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting policy: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// scanOne scans a single Policy row from a query. Returns ErrNotFound if no rows.
func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*Policy, error) {
	var p Policy
	err := r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.Name, &p.Details, &p.Owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning policy row: %w", err)
	}
	return &p, nil
}
