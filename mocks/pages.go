package mocks

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rxtech-lab/boerse-charts/internal/types"
)

// DetailPage renders an instrument detail page with the series embedded as
// the current client-state shape, the way the live site serves it.
func DetailPage(series types.CandleSeries) []byte {
	rows := make([][]any, 0, len(series.Candles))
	for _, candle := range series.Candles {
		var volume any
		if candle.Volume.IsSome() {
			volume = candle.Volume.Unwrap()
		}

		rows = append(rows, []any{
			candle.Time.Unix(),
			candle.Open,
			candle.High,
			candle.Low,
			candle.Close,
			volume,
		})
	}

	payload, err := json.Marshal(map[string]any{
		"instrument": map[string]any{
			"isin": series.Identifier,
			"name": series.Name,
		},
		"candles": rows,
	})
	if err != nil {
		panic(fmt.Sprintf("marshal detail payload: %v", err))
	}

	return []byte(fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head><title>%s | Boerse Stuttgart</title></head>
<body>
<div id="__nuxt"><div class="instrument-head"><h1>%s</h1></div></div>
<script id="__NUXT_DATA__" type="application/json">%s</script>
</body>
</html>`, series.Name, series.Name, payload))
}

// SearchPage renders a search-result page with one data-isin row per
// record.
func SearchPage(records []types.InstrumentRecord) []byte {
	var rows strings.Builder
	for _, record := range records {
		fmt.Fprintf(&rows,
			`<li data-isin=%q data-name=%q data-market=%q><a href="/en/products/equities/stuttgart/%s">%s</a></li>`,
			record.Identifier, record.Name, record.Market, record.Identifier, record.Name)
		rows.WriteString("\n")
	}

	return []byte(fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head><title>Search | Boerse Stuttgart</title></head>
<body>
<ul class="search-results">
%s</ul>
</body>
</html>`, rows.String()))
}
