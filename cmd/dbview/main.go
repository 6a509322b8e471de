// Command dbview dumps the users and policies tables for inspection.
//
// Usage:
//
//	DATABASE_URL=postgres://... go run ./cmd/dbview
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kelseyhightower/envconfig"

	"github.com/coverdesk/coverdesk/internal/store"
)

type dbviewConfig struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
}

func main() {
	var cfg dbviewConfig
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := dump(ctx, pool); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func dump(ctx context.Context, pool *pgxpool.Pool) error {
	userRows, err := pool.Query(ctx, `SELECT username, role FROM users ORDER BY username`)
	if err != nil {
		return fmt.Errorf("querying users: %w", err)
	}
	defer userRows.Close()

	type userRow struct {
		username string
		role     string
	}
	var users []userRow
	for userRows.Next() {
		var u userRow
		if err := userRows.Scan(&u.username, &u.role); err != nil {
			return fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := userRows.Err(); err != nil {
		return fmt.Errorf("iterating user rows: %w", err)
	}

	fmt.Printf("Users (count=%d):\n", len(users))
	for _, u := range users {
		fmt.Printf("  - %s (role=%s)\n", u.username, u.role)
	}

	policyRows, err := pool.Query(ctx, `SELECT id, name, details, owner FROM policies ORDER BY id`)
	if err != nil {
		return fmt.Errorf("querying policies: %w", err)
	}
	defer policyRows.Close()

	type policyRow struct {
		id      int64
		name    string
		details *string
		owner   string
	}
	var policies []policyRow
	for policyRows.Next() {
		var p policyRow
		if err := policyRows.Scan(&p.id, &p.name, &p.details, &p.owner); err != nil {
			return fmt.Errorf("scanning policy row: %w", err)
		}
		policies = append(policies, p)
	}
	if err := policyRows.Err(); err != nil {
		return fmt.Errorf("iterating policy rows: %w", err)
	}

	fmt.Printf("Policies (count=%d):\n", len(policies))
	for _, p := range policies {
		details := ""
		if p.details != nil {
			details = *p.details
		}
		fmt.Printf("  - #%d %s owner=%s details=%s\n", p.id, p.name, p.owner, details)
	}

	return nil
}
