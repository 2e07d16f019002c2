package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/mystore/pkg/config"
	"github.com/angelmondragon/mystore/pkg/db"
	"github.com/angelmondragon/mystore/pkg/logger"
	"github.com/angelmondragon/mystore/pkg/migrate"
)

// gooseCommands need a postgres connection; create and validate only touch files.
var gooseCommands = map[string]bool{"up": true, "down": true, "status": true, "version": true}

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "up|down|status|version|create|validate")
	dir := flag.String("dir", migrate.DefaultDir, `migrations directory ("`+migrate.EmbeddedDir+`" uses the compiled-in set)`)
	name := flag.String("name", "", "migration name for -cmd=create")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"cmd":    *cmd,
		"dir":    *dir,
		"driver": cfg.DB.Driver,
	})

	if err := run(ctx, cfg, logg, *cmd, *dir, *name, *version); err != nil {
		logg.Error(ctx, "migrate failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, cmd, dir, name, version string) error {
	switch cmd {
	case "create":
		if name == "" {
			return errors.New("-name is required for create")
		}
		path, err := migrate.CreateSQLMigration(dir, name)
		if err != nil {
			return err
		}
		fmt.Println("created", path)
		return nil
	case "validate":
		if err := migrate.ValidateDir(dir); err != nil {
			return err
		}
		fmt.Println("migrations ok")
		return nil
	}

	if !gooseCommands[cmd] {
		return fmt.Errorf("unknown -cmd %q", cmd)
	}
	if cmd == "version" && version == "" {
		return errors.New("-version is required for version")
	}
	// sqlite schemas come from EnsureSchema
	if cfg.DB.IsSQLite() {
		return fmt.Errorf("-cmd=%s requires %s=%s", cmd, config.EnvDBDriver, config.DBDriverPostgres)
	}

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer client.Close()
	sqlDB, err := client.SQL()
	if err != nil {
		return err
	}

	logg.Info(ctx, "migrate.start")
	if cmd == "version" {
		return migrate.MigrateToVersion(ctx, sqlDB, client.Driver(), dir, version)
	}
	return migrate.Run(ctx, sqlDB, client.Driver(), dir, cmd)
}
