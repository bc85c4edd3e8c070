package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	// Define the CLI application
	cmd := &cli.Command{
		Name:    "boerse",
		Usage:   "Fetch, chart and track Boerse Stuttgart instruments",
		Version: "1.0.0",
		Commands: []*cli.Command{
			chartCommand(),
			searchCommand(),
			watchlistCommand(),
			schemaCommand(),
		},
	}

	// Run the CLI application
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
