package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/jobportal/internal/buildinfo"
	"github.com/dmitrijs2005/jobportal/internal/client/cli"
	"github.com/dmitrijs2005/jobportal/internal/client/config"
	"github.com/dmitrijs2005/jobportal/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx := context.Background()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
