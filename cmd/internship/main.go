package main

import (
	"context"
	"log"
	"os"

	"github.com/ignatzorin/internship-backend/internal/config"
	"github.com/ignatzorin/internship-backend/internal/interface/cli"
	"github.com/ignatzorin/internship-backend/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.LogLevel)
	if cfg.Env == "development" {
		logger.SetTextFormatter()
	}

	os.Exit(cli.New(cfg).Run(context.Background()))
}
