package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/travelbuddy/internal/buildinfo"
	"github.com/dmitrijs2005/travelbuddy/internal/client/cli"
	"github.com/dmitrijs2005/travelbuddy/internal/client/config"
	"github.com/dmitrijs2005/travelbuddy/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(cfg, logging.NewDefault())
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
