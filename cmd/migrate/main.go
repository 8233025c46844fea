package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/portfolio/contact/internal/config"
	"github.com/portfolio/contact/internal/logging"
	"github.com/portfolio/contact/internal/repository"
	"github.com/portfolio/contact/migrations"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  up (default)  未適用のマイグレーションをすべて適用
  down          直近のマイグレーションを 1 つ戻す
  reset         すべてのマイグレーションを戻す
  status        適用状況を表示`)
	os.Exit(1)
}

func main() {
	_ = godotenv.Load("../.env")
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	cmd := migrations.CommandUp
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case migrations.CommandUp, migrations.CommandDown, migrations.CommandReset, migrations.CommandStatus:
	default:
		usage()
	}

	ctx := context.Background()
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	if err := migrations.Run(ctx, pool, cmd); err != nil {
		logging.Fatal("migration failed", "command", cmd, "error", err)
	}
	slog.Info("migration completed", "command", cmd)
}
