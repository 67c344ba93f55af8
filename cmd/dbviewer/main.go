package main

import (
	"context"
	"os"

	"github.com/angelmondragon/propertyhub/pkg/config"
	"github.com/angelmondragon/propertyhub/pkg/db"
	"github.com/angelmondragon/propertyhub/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "dbviewer"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "dbviewer",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to open database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	v := &viewer{conn: dbClient.DB(), out: os.Stdout}
	if err := v.Dump(ctx); err != nil {
		logg.Error(ctx, "database dump incomplete", err)
		os.Exit(1)
	}
}
