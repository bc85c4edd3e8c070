package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/boerse-charts/internal/logger"
	"github.com/rxtech-lab/boerse-charts/internal/store"
	"github.com/rxtech-lab/boerse-charts/internal/types"
	"github.com/rxtech-lab/boerse-charts/internal/watchlist"
	"github.com/rxtech-lab/boerse-charts/pkg/boersedata"
	"github.com/rxtech-lab/boerse-charts/pkg/errors"
)

func watchlistCommand() *cli.Command {
	return &cli.Command{
		Name:  "watchlist",
		Usage: "Manage the tracked instrument list",
		Commands: []*cli.Command{
			watchlistListCommand(),
			watchlistAddCommand(),
			watchlistRemoveCommand(),
			watchlistRefreshCommand(),
		},
	}
}

// watchlistFlags are shared by every watchlist subcommand.
func watchlistFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "seed",
			Usage: "Curated seed CSV (read-only)",
			Value: "watchlist.csv",
		},
		&cli.StringFlag{
			Name:  "file",
			Usage: "User watchlist JSON",
			Value: "watchlist.json",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
}

func newRepository(cmd *cli.Command, log *logger.Logger) watchlist.Repository {
	return watchlist.NewFileRepository(cmd.String("seed"), cmd.String("file"), log)
}

func watchlistListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Show the merged watchlist",
		Flags: append(watchlistFlags(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format: table or json",
				Value:   outputTable,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log, err := newLogger(cmd.Bool("verbose"))
			if err != nil {
				return err
			}
			defer log.Sync()

			entries, err := newRepository(cmd, log).Load()
			if err != nil {
				return err
			}

			return renderEntries(os.Stdout, entries, cmd.String("output"))
		},
	}
}

func watchlistAddCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add an instrument to the watchlist",
		Flags: append(watchlistFlags(),
			&cli.StringFlag{Name: "name", Usage: "Instrument name", Required: true},
			&cli.StringFlag{Name: "isin", Aliases: []string{"i"}, Usage: "Instrument ISIN", Required: true},
			&cli.StringFlag{Name: "market", Usage: "Trading venue"},
			&cli.StringFlag{Name: "cluster", Usage: "Watchlist cluster"},
			&cli.StringFlag{Name: "triggers", Usage: "Primary triggers"},
			&cli.StringFlag{Name: "setup", Usage: "Entry setup"},
			&cli.StringFlag{Name: "stop", Usage: "Stop rule"},
			&cli.StringFlag{Name: "tp", Usage: "Take-profit and management rule"},
			&cli.StringFlag{Name: "window", Usage: "Trading time window (CEST)"},
			&cli.StringFlag{Name: "notes", Usage: "Free-form notes"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log, err := newLogger(cmd.Bool("verbose"))
			if err != nil {
				return err
			}
			defer log.Sync()

			entry := watchlist.Entry{
				Name:            cmd.String("name"),
				Identifier:      cmd.String("isin"),
				Market:          cmd.String("market"),
				Cluster:         cmd.String("cluster"),
				PrimaryTriggers: cmd.String("triggers"),
				EntrySetup:      cmd.String("setup"),
				StopRule:        cmd.String("stop"),
				TPManagement:    cmd.String("tp"),
				TimeWindow:      cmd.String("window"),
				Notes:           cmd.String("notes"),
			}

			if err := newRepository(cmd, log).Add(entry); err != nil {
				return err
			}

			fmt.Printf("Added %s (%s) to the watchlist.\n", entry.Name, entry.Identifier)

			return nil
		},
	}
}

func watchlistRemoveCommand() *cli.Command {
	return &cli.Command{
		Name:  "remove",
		Usage: "Remove a user entry from the watchlist",
		Flags: append(watchlistFlags(),
			&cli.StringFlag{Name: "isin", Aliases: []string{"i"}, Usage: "Instrument ISIN", Required: true},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log, err := newLogger(cmd.Bool("verbose"))
			if err != nil {
				return err
			}
			defer log.Sync()

			identifier := cmd.String("isin")
			if err := newRepository(cmd, log).Remove(identifier); err != nil {
				return err
			}

			fmt.Printf("Removed %s from the watchlist.\n", identifier)

			return nil
		},
	}
}

func watchlistRefreshCommand() *cli.Command {
	return &cli.Command{
		Name:  "refresh",
		Usage: "Prefetch charts for every watchlist entry into the store",
		Flags: append(watchlistFlags(),
			&cli.StringFlag{
				Name:    "range",
				Aliases: []string{"r"},
				Usage:   "Time range to prefetch",
				Value:   "1d",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "DuckDB file recording fetched candles",
				Value: "boerse.duckdb",
			},
		),
		Action: refreshAction,
	}
}

func refreshAction(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd.Bool("verbose"))
	if err != nil {
		return err
	}
	defer log.Sync()

	rangeKey, err := types.ParseRangeKey(cmd.String("range"))
	if err != nil {
		return err
	}

	client, err := boersedata.NewClient(boersedata.DefaultClientConfig(), nil, log)
	if err != nil {
		return err
	}

	candleStore, err := store.NewStore(cmd.String("store"), log)
	if err != nil {
		return err
	}
	defer candleStore.Close()

	if err := candleStore.Initialize(); err != nil {
		return err
	}

	result, err := refreshEntries(ctx, client, newRepository(cmd, log), candleStore, rangeKey, true)
	if err != nil {
		return err
	}

	fmt.Printf("Refreshed %d of %d entries.\n", result.Refreshed, result.Total)
	if len(result.Failed) > 0 {
		fmt.Printf("Failed: %s\n", strings.Join(result.Failed, ", "))
	}

	return nil
}

// chartFetcher is the slice of the chart client the refresh loop needs.
type chartFetcher interface {
	Chart(ctx context.Context, req boersedata.ChartRequest) (types.ChartPayload, error)
}

// seriesRecorder is the slice of the store the refresh loop needs.
type seriesRecorder interface {
	SaveSeries(series types.CandleSeries) error
}

type refreshResult struct {
	Total     int
	Refreshed int
	Failed    []string
}

// refreshEntries prefetches a chart for every watchlist entry and records
// the resulting series. A failing entry is collected, not fatal; an entry
// whose range is empty counts as refreshed with nothing to record.
func refreshEntries(ctx context.Context, client chartFetcher, repo watchlist.Repository, recorder seriesRecorder, key types.RangeKey, showProgress bool) (refreshResult, error) {
	entries, err := repo.Load()
	if err != nil {
		return refreshResult{}, err
	}

	result := refreshResult{Total: len(entries)}
	if len(entries) == 0 {
		return result, nil
	}

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.NewOptions(len(entries),
			progressbar.OptionSetDescription("Refreshing"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
		)
	}

	for i, entry := range entries {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := refreshEntry(ctx, client, recorder, key, entry); err != nil {
			result.Failed = append(result.Failed, entry.Identifier)
		} else {
			result.Refreshed++
		}

		if bar != nil {
			bar.Set(i + 1)
		}
	}

	if bar != nil {
		bar.Finish()
		fmt.Println()
	}

	return result, nil
}

func refreshEntry(ctx context.Context, client chartFetcher, recorder seriesRecorder, key types.RangeKey, entry watchlist.Entry) error {
	payload, err := client.Chart(ctx, boersedata.ChartRequest{
		Identifier: entry.Identifier,
		Name:       entry.Name,
		Range:      key,
	})
	if err != nil && !errors.IsEmptyRangeError(err) {
		return err
	}

	if payload.Series.IsEmpty() {
		return nil
	}

	return recorder.SaveSeries(payload.Series)
}
