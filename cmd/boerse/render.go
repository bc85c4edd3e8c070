package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/moznion/go-optional"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/boerse-charts/internal/types"
	"github.com/rxtech-lab/boerse-charts/internal/watchlist"
	"github.com/rxtech-lab/boerse-charts/pkg/errors"
)

const (
	outputJSON  = "json"
	outputTable = "table"

	timeColumnLayout = "2006-01-02 15:04"
)

// formatPrice renders a price without binary float noise.
func formatPrice(value float64) string {
	return decimal.NewFromFloat(value).Round(4).String()
}

// formatOptional renders an optional value, "-" when undefined.
func formatOptional(value optional.Option[float64]) string {
	if value.IsNone() {
		return "-"
	}

	return formatPrice(value.Unwrap())
}

// formatVolume renders a volume as a whole number, "-" when absent.
func formatVolume(value optional.Option[float64]) string {
	if value.IsNone() {
		return "-"
	}

	return decimal.NewFromFloat(value.Unwrap()).Round(0).String()
}

func renderJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

// renderChart writes the payload in the requested output format.
func renderChart(w io.Writer, payload types.ChartPayload, format string) error {
	switch format {
	case outputJSON:
		return renderJSON(w, payload)
	case outputTable:
		return renderChartTable(w, payload)
	default:
		return errors.Newf(errors.ErrCodeInvalidConfig, "unknown output format %q", format)
	}
}

func renderChartTable(w io.Writer, payload types.ChartPayload) error {
	series := payload.Series

	title := series.Name
	if title == "" {
		title = series.Identifier
	}

	fmt.Fprintf(w, "%s [%s] range=%s resolution=%s candles=%d\n\n",
		title, series.Identifier, series.Range, series.Resolution, len(series.Candles))

	if len(series.Candles) == 0 {
		fmt.Fprintln(w, "No candles in the requested range.")

		return nil
	}

	headers := []string{"Time", "Open", "High", "Low", "Close", "Volume"}
	for _, sma := range payload.SMA {
		headers = append(headers, fmt.Sprintf("SMA(%d)", sma.Period))
	}
	for _, ema := range payload.EMA {
		headers = append(headers, fmt.Sprintf("EMA(%d)", ema.Period))
	}
	if payload.Bollinger != nil {
		headers = append(headers, "BB Lower", "BB Mid", "BB Upper")
	}
	if payload.RSI != nil {
		headers = append(headers, fmt.Sprintf("RSI(%d)", payload.RSI.Period))
	}
	if payload.MACD != nil {
		headers = append(headers, "MACD", "Signal", "Hist")
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader(headers),
	)

	for i, candle := range series.Candles {
		row := []string{
			candle.Time.Format(timeColumnLayout),
			formatPrice(candle.Open),
			formatPrice(candle.High),
			formatPrice(candle.Low),
			formatPrice(candle.Close),
			formatVolume(candle.Volume),
		}

		for _, sma := range payload.SMA {
			row = append(row, formatOptional(sma.Values[i]))
		}
		for _, ema := range payload.EMA {
			row = append(row, formatOptional(ema.Values[i]))
		}
		if payload.Bollinger != nil {
			row = append(row,
				formatOptional(payload.Bollinger.Lower[i]),
				formatOptional(payload.Bollinger.Middle[i]),
				formatOptional(payload.Bollinger.Upper[i]))
		}
		if payload.RSI != nil {
			row = append(row, formatOptional(payload.RSI.Values[i]))
		}
		if payload.MACD != nil {
			row = append(row,
				formatOptional(payload.MACD.Line[i]),
				formatOptional(payload.MACD.Signal[i]),
				formatOptional(payload.MACD.Histogram[i]))
		}

		table.Append(row)
	}

	table.Render()

	if series.Snapshot {
		fmt.Fprintln(w, "\nSnapshot quote only: the page carried no history for this range.")
	}

	if payload.OpeningRange.IsSome() {
		orb := payload.OpeningRange.Unwrap()
		fmt.Fprintf(w, "\nOpening range (%dm, %s-%s): high %s, low %s\n",
			orb.WindowMinutes,
			orb.Start.Format("15:04"), orb.End.Format("15:04"),
			formatPrice(orb.High), formatPrice(orb.Low))
	}

	if payload.SkippedRows > 0 {
		fmt.Fprintf(w, "\nSkipped %d malformed source rows.\n", payload.SkippedRows)
	}

	return nil
}

// renderRecords writes search results in the requested output format.
func renderRecords(w io.Writer, records []types.InstrumentRecord, format string) error {
	switch format {
	case outputJSON:
		return renderJSON(w, records)
	case outputTable:
	default:
		return errors.Newf(errors.ErrCodeInvalidConfig, "unknown output format %q", format)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No instruments found.")

		return nil
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Identifier", "Name", "Market", "Detail"}),
	)

	for _, record := range records {
		table.Append([]string{record.Identifier, record.Name, record.Market, record.DetailRef})
	}

	table.Render()

	return nil
}

// renderEntries writes watchlist entries in the requested output format.
func renderEntries(w io.Writer, entries []watchlist.Entry, format string) error {
	switch format {
	case outputJSON:
		return renderJSON(w, entries)
	case outputTable:
	default:
		return errors.Newf(errors.ErrCodeInvalidConfig, "unknown output format %q", format)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "Watchlist is empty.")

		return nil
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Name", "Identifier", "Market", "Cluster", "Time Window (CEST)"}),
	)

	for _, entry := range entries {
		table.Append([]string{entry.Name, entry.Identifier, entry.Market, entry.Cluster, entry.TimeWindow})
	}

	table.Render()

	return nil
}
