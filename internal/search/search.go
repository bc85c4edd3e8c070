// Package search parses instrument search-result pages into typed records.
// The walk is tolerant: rows missing the required identifier are skipped and
// counted instead of failing the whole parse, and zero results is a valid
// outcome, not an error.
package search

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/rxtech-lab/boerse-charts/internal/types"
)

// isinPattern matches the twelve-character ISIN shape: country code, nine
// alphanumerics, check digit.
var isinPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// Parse extracts one InstrumentRecord per result row, preserving document
// order. The returned int counts rows that were dropped for lacking an
// identifier. Markup rows carrying a data-isin attribute are the current
// shape; when the document has none at all, product-detail anchors with an
// ISIN-shaped final path segment are read instead (legacy listing pages).
func Parse(doc []byte) ([]types.InstrumentRecord, int) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, 0
	}

	records, skipped, sawModernRows := parseModernRows(root)
	if len(records) == 0 && !sawModernRows {
		records = parseLegacyAnchors(root)
	}

	return records, skipped
}

func parseModernRows(root *html.Node) ([]types.InstrumentRecord, int, bool) {
	var records []types.InstrumentRecord
	skipped := 0
	sawRows := false

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasAttr(n, "data-isin") {
			sawRows = true
			record, ok := recordFromRow(n)
			if ok {
				records = append(records, record)
			} else {
				skipped++
			}

			// Rows do not nest; skip the subtree.
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	return records, skipped, sawRows
}

func recordFromRow(row *html.Node) (types.InstrumentRecord, bool) {
	identifier := strings.TrimSpace(attr(row, "data-isin"))
	if identifier == "" {
		return types.InstrumentRecord{}, false
	}

	name := strings.TrimSpace(attr(row, "data-name"))
	if name == "" {
		name = collapseWhitespace(deepText(row))
	}

	market := strings.TrimSpace(attr(row, "data-market"))
	if market == "" {
		market = classText(row, "market")
	}

	return types.InstrumentRecord{
		Identifier: strings.ToUpper(identifier),
		Name:       name,
		Market:     market,
		DetailRef:  firstAnchorHref(row),
	}, true
}

func parseLegacyAnchors(root *html.Node) []types.InstrumentRecord {
	var records []types.InstrumentRecord

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if record, ok := recordFromAnchor(n); ok {
				records = append(records, record)
			}

			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	return records
}

// recordFromAnchor reads the legacy listing shape: a product-detail link
// whose path ends in an ISIN, with the market segment right before it,
// e.g. /en/products/equities/stuttgart/DE0007100000.
func recordFromAnchor(anchor *html.Node) (types.InstrumentRecord, bool) {
	href := strings.TrimSpace(attr(anchor, "href"))
	if href == "" || !strings.Contains(href, "/products/") {
		return types.InstrumentRecord{}, false
	}

	path := href
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 {
		return types.InstrumentRecord{}, false
	}

	identifier := strings.ToUpper(segments[len(segments)-1])
	if !isinPattern.MatchString(identifier) {
		return types.InstrumentRecord{}, false
	}

	market := ""
	if len(segments) >= 2 {
		market = segments[len(segments)-2]
	}

	return types.InstrumentRecord{
		Identifier: identifier,
		Name:       collapseWhitespace(deepText(anchor)),
		Market:     market,
		DetailRef:  href,
	}, true
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}

	return ""
}

func hasAttr(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Key == name {
			return true
		}
	}

	return false
}

// deepText concatenates every text node under n.
func deepText(n *html.Node) string {
	var sb strings.Builder

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			sb.WriteString(" ")
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)

	return sb.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// classText returns the trimmed text of the first descendant element whose
// class attribute contains the given token.
func classText(n *html.Node, token string) string {
	var result string

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if result != "" {
			return
		}
		if node.Type == html.ElementNode && node != n {
			for _, t := range strings.Fields(attr(node, "class")) {
				if t == token {
					result = collapseWhitespace(deepText(node))

					return
				}
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)

	return result
}

// firstAnchorHref returns the href of the first anchor under n.
func firstAnchorHref(n *html.Node) string {
	var result string

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if result != "" {
			return
		}
		if node.Type == html.ElementNode && node.Data == "a" {
			if href := strings.TrimSpace(attr(node, "href")); href != "" {
				result = href

				return
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)

	return result
}
