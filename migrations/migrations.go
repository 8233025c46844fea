// Package migrations holds the PostgreSQL schema as embedded goose migrations.
package migrations

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var files embed.FS

// Commands understood by Run.
const (
	CommandUp     = "up"
	CommandDown   = "down"
	CommandReset  = "reset"
	CommandStatus = "status"
)

// Run applies a goose command against the database behind pool.
func Run(ctx context.Context, pool *pgxpool.Pool, command string) error {
	goose.SetBaseFS(files)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	switch command {
	case CommandUp, "":
		return goose.UpContext(ctx, db, ".")
	case CommandDown:
		return goose.DownContext(ctx, db, ".")
	case CommandReset:
		return goose.ResetContext(ctx, db, ".")
	case CommandStatus:
		return goose.StatusContext(ctx, db, ".")
	}
	return fmt.Errorf("migrations: unknown command %q", command)
}

// Up applies every pending migration.
func Up(ctx context.Context, pool *pgxpool.Pool) error {
	return Run(ctx, pool, CommandUp)
}
