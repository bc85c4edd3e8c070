package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/boerse-charts/internal/chart"
	"github.com/rxtech-lab/boerse-charts/internal/store"
	"github.com/rxtech-lab/boerse-charts/internal/types"
	"github.com/rxtech-lab/boerse-charts/pkg/boersedata"
	"github.com/rxtech-lab/boerse-charts/pkg/errors"
)

func chartCommand() *cli.Command {
	return &cli.Command{
		Name:  "chart",
		Usage: "Fetch a candle chart with indicators for one instrument",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "isin",
				Aliases:  []string{"i"},
				Usage:    "Instrument ISIN or detail page slug",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "Display name used when the page does not provide one",
			},
			&cli.StringFlag{
				Name:    "range",
				Aliases: []string{"r"},
				Usage:   "Time range (intraday, 1d, 1w, 1mo, 3mo, 1y, max)",
				Value:   "1d",
			},
			&cli.StringFlag{
				Name:  "sma",
				Usage: "Comma-separated SMA periods, e.g. 20,50",
			},
			&cli.StringFlag{
				Name:  "ema",
				Usage: "Comma-separated EMA periods",
			},
			&cli.BoolFlag{
				Name:  "bollinger",
				Usage: "Compute Bollinger bands",
			},
			&cli.IntFlag{
				Name:  "boll-period",
				Usage: "Bollinger window in bars",
				Value: chart.DefaultBollingerPeriod,
			},
			&cli.FloatFlag{
				Name:  "boll-std",
				Usage: "Bollinger band width in standard deviations",
				Value: chart.DefaultBollingerStdDev,
			},
			&cli.BoolFlag{
				Name:  "rsi",
				Usage: "Compute the relative strength index",
			},
			&cli.IntFlag{
				Name:  "rsi-period",
				Usage: "RSI smoothing period",
				Value: chart.DefaultRSIPeriod,
			},
			&cli.BoolFlag{
				Name:  "macd",
				Usage: "Compute MACD",
			},
			&cli.IntFlag{
				Name:  "macd-fast",
				Usage: "MACD fast EMA period",
				Value: chart.DefaultMACDFastPeriod,
			},
			&cli.IntFlag{
				Name:  "macd-slow",
				Usage: "MACD slow EMA period",
				Value: chart.DefaultMACDSlowPeriod,
			},
			&cli.IntFlag{
				Name:  "macd-signal",
				Usage: "MACD signal EMA period",
				Value: chart.DefaultMACDSignal,
			},
			&cli.IntFlag{
				Name:  "orb",
				Usage: "Opening-range window in minutes (0 disables)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML indicator config file; flags override its settings",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format: table or json",
				Value:   outputTable,
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "DuckDB file recording fetched candles",
			},
			&cli.BoolFlag{
				Name:  "offline",
				Usage: "Serve the chart from the store without fetching",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Action: chartAction,
	}
}

// chartAction fetches the instrument page, assembles the chart payload and
// renders it. With --store, fetched series are recorded and a failed fetch
// falls back to previously recorded candles.
func chartAction(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd.Bool("verbose"))
	if err != nil {
		return err
	}
	defer log.Sync()

	rangeKey, err := types.ParseRangeKey(cmd.String("range"))
	if err != nil {
		return err
	}

	cfg, err := indicatorConfig(cmd)
	if err != nil {
		return err
	}

	identifier := strings.TrimSpace(cmd.String("isin"))
	format := cmd.String("output")

	var candleStore *store.Store
	if path := cmd.String("store"); path != "" {
		candleStore, err = store.NewStore(path, log)
		if err != nil {
			return err
		}
		defer candleStore.Close()

		if err := candleStore.Initialize(); err != nil {
			return err
		}
	}

	if cmd.Bool("offline") {
		if candleStore == nil {
			return errors.New(errors.ErrCodeInvalidConfig, "--offline requires --store")
		}

		payload, err := chartFromStore(candleStore, identifier, rangeKey, cfg)
		if err != nil {
			return err
		}

		return renderChart(os.Stdout, payload, format)
	}

	client, err := boersedata.NewClient(boersedata.DefaultClientConfig(), nil, log)
	if err != nil {
		return err
	}

	payload, err := client.Chart(ctx, boersedata.ChartRequest{
		Identifier: identifier,
		Name:       cmd.String("name"),
		Range:      rangeKey,
		Indicators: cfg,
	})

	switch {
	case err == nil:
	case errors.IsEmptyRangeError(err):
		// Still renderable; the table notes the empty range.
	case candleStore != nil:
		log.Warn("Fetch failed, serving from store", zap.Error(err))

		payload, err = chartFromStore(candleStore, identifier, rangeKey, cfg)
		if err != nil {
			return err
		}

		return renderChart(os.Stdout, payload, format)
	default:
		return err
	}

	if candleStore != nil && !payload.Series.IsEmpty() {
		if err := candleStore.SaveSeries(payload.Series); err != nil {
			log.Warn("Failed to record series", zap.Error(err))
		}
	}

	return renderChart(os.Stdout, payload, format)
}

// indicatorConfig assembles the indicator config from the config file and
// flags. Flags win over file settings.
func indicatorConfig(cmd *cli.Command) (chart.Config, error) {
	var cfg chart.Config

	if path := cmd.String("config"); path != "" {
		loaded, err := loadIndicatorConfig(path)
		if err != nil {
			return chart.Config{}, err
		}
		cfg = loaded
	}

	sma, err := parsePeriods(cmd.String("sma"))
	if err != nil {
		return chart.Config{}, err
	}
	if sma != nil {
		cfg.SMAPeriods = sma
	}

	ema, err := parsePeriods(cmd.String("ema"))
	if err != nil {
		return chart.Config{}, err
	}
	if ema != nil {
		cfg.EMAPeriods = ema
	}

	if cmd.Bool("bollinger") {
		cfg.Bollinger = &chart.BollingerConfig{
			Period: int(cmd.Int("boll-period")),
			StdDev: cmd.Float("boll-std"),
		}
	}

	if cmd.Bool("rsi") {
		cfg.RSI = &chart.RSIConfig{
			Period: int(cmd.Int("rsi-period")),
		}
	}

	if cmd.Bool("macd") {
		cfg.MACD = &chart.MACDConfig{
			FastPeriod:   int(cmd.Int("macd-fast")),
			SlowPeriod:   int(cmd.Int("macd-slow")),
			SignalPeriod: int(cmd.Int("macd-signal")),
		}
	}

	if cmd.IsSet("orb") {
		cfg.ORBMinutes = int(cmd.Int("orb"))
	}

	return cfg, nil
}

// chartFromStore assembles a chart payload from previously recorded
// candles.
func chartFromStore(candleStore *store.Store, identifier string, key types.RangeKey, cfg chart.Config) (types.ChartPayload, error) {
	opt, ok := key.Option()
	if !ok {
		return types.ChartPayload{}, errors.Newf(errors.ErrCodeInvalidRange, "unknown range %q", string(key))
	}

	window := key.Window(time.Now(), types.ExchangeLocation())

	candles, err := candleStore.LoadRange(identifier, opt.Resolution, window)
	if err != nil {
		return types.ChartPayload{}, err
	}

	if len(candles) == 0 {
		return types.ChartPayload{}, errors.NewEmptyRangeErrorf(window.From, window.To, identifier,
			"no stored candles for %s in range %s", identifier, string(key))
	}

	series := types.CandleSeries{
		Identifier: identifier,
		Resolution: opt.Resolution,
		Range:      key,
		Candles:    candles,
	}

	return chart.Build(series, cfg)
}
