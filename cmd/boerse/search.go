package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/boerse-charts/pkg/boersedata"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search instruments by name, ISIN or WKN",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "query",
				Aliases:  []string{"q"},
				Usage:    "Search text",
				Required: true,
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Maximum number of results (0 means all)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format: table or json",
				Value:   outputTable,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Action: searchAction,
	}
}

func searchAction(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd.Bool("verbose"))
	if err != nil {
		return err
	}
	defer log.Sync()

	client, err := boersedata.NewClient(boersedata.DefaultClientConfig(), nil, log)
	if err != nil {
		return err
	}

	records, err := client.Search(ctx, cmd.String("query"))
	if err != nil {
		return err
	}

	if limit := int(cmd.Int("limit")); limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	return renderRecords(os.Stdout, records, cmd.String("output"))
}
