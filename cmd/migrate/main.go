package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/gymratia/gymratia-api/config"
	"github.com/gymratia/gymratia-api/pkg/db"
	"github.com/gymratia/gymratia-api/pkg/logger"
	"go.uber.org/zap"
)

// usage: migrate [-source file://migrations] [-steps N] up|down|version
func main() {
	source := flag.String("source", "file://migrations", "migration source URL")
	steps := flag.Int("steps", 1, "migrations to roll back with down")
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		Environment: cfg.Server.AppEnv,
		ServiceName: "gymratia-migrate",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.With(
		zap.String("command", command),
		zap.String("database", maskDatabaseURL(cfg.Database.URL)))

	migrator, err := db.NewMigrator(db.PoolConfig{
		URL:        cfg.Database.URL,
		CACertPath: cfg.Database.CACertPath,
	}, *source)
	if err != nil {
		log.Fatal("Failed to open migrator", zap.Error(err))
	}

	if err := run(migrator, command, *steps, log); err != nil {
		_ = migrator.Close()
		log.Fatal("Migration command failed", zap.Error(err))
	}

	if err := migrator.Close(); err != nil {
		log.Warn("Failed to close migrator", zap.Error(err))
	}
}

func run(migrator *db.Migrator, command string, steps int, log *zap.Logger) error {
	switch command {
	case "up":
		if err := migrator.Up(); err != nil {
			return err
		}
	case "down":
		if err := migrator.Down(steps); err != nil {
			return err
		}
	case "version":
	default:
		return fmt.Errorf("unknown command %q (want up, down or version)", command)
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	log.Info("Schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// maskDatabaseURL hides the password of a postgres URL
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	return u.Redacted()
}
