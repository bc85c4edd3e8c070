package main

import (
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/boerse-charts/internal/chart"
	"github.com/rxtech-lab/boerse-charts/internal/logger"
	"github.com/rxtech-lab/boerse-charts/pkg/errors"
)

// newLogger builds the CLI logger. The default level is warn so tables and
// JSON stay clean on stdout; --verbose raises it to debug.
func newLogger(verbose bool) (*logger.Logger, error) {
	if verbose {
		return logger.NewLoggerWithLevel(zapcore.DebugLevel)
	}

	return logger.NewLoggerWithLevel(zapcore.WarnLevel)
}

// parsePeriods parses a comma-separated period list like "20,50,200".
// An empty string means no periods requested.
func parsePeriods(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	periods := make([]int, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		period, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidPeriod, err, "invalid period %q", part)
		}

		if period < 1 {
			return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be positive, got %d", period)
		}

		periods = append(periods, period)
	}

	if len(periods) == 0 {
		return nil, nil
	}

	return periods, nil
}

// loadIndicatorConfig reads indicator settings from a YAML file.
func loadIndicatorConfig(path string) (chart.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return chart.Config{}, errors.Wrapf(errors.ErrCodeInvalidConfig, err, "failed to read config %s", path)
	}

	var cfg chart.Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return chart.Config{}, errors.Wrapf(errors.ErrCodeInvalidConfig, err, "failed to parse config %s", path)
	}

	return cfg, nil
}
