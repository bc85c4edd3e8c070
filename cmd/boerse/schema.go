package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/boerse-charts/internal/chart"
)

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON schema of the indicator config",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var cfg chart.Config

			schemaJSON, err := cfg.GenerateSchemaJSON()
			if err != nil {
				return err
			}

			fmt.Println(schemaJSON)

			return nil
		},
	}
}
