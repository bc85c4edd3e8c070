// Package extractor locates and decodes the client-state payload embedded in
// a server-rendered exchange page. The site has shipped several embedding
// shapes over time; extraction probes the known ones in order instead of
// pinning the current markup.
package extractor

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"

	"github.com/rxtech-lab/boerse-charts/internal/statetree"
	"github.com/rxtech-lab/boerse-charts/pkg/errors"
)

const (
	stateScriptID  = "__NUXT_DATA__"
	legacyPrefix   = "window.__NUXT__"
	stateAttrName  = "data-app-state"
	jsonScriptType = "application/json"
)

// Extract locates the embedded client state in an HTML document and returns
// it as a navigable tree. Shapes are probed in order:
//
//  1. <script id="__NUXT_DATA__" type="application/json"> with a JSON
//     payload array (current).
//  2. An inline script assigning window.__NUXT__= an object literal
//     (legacy).
//  3. <script type="application/json" data-app-state> (transitional).
//
// A document without any known marker fails with ErrCodeStateNotFound; a
// marker whose payload does not decode fails with ErrCodeStateMalformed.
func Extract(doc []byte) (statetree.Node, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return statetree.Node{}, errors.Wrap(errors.ErrCodeStateMalformed, "failed to parse document", err)
	}

	payload, found := findStatePayload(root)
	if !found {
		return statetree.Node{}, errors.New(errors.ErrCodeStateNotFound, "no embedded client state in document")
	}

	tree, err := statetree.Parse([]byte(payload))
	if err != nil {
		return statetree.Node{}, err
	}

	if err := CheckPayloadVersion(tree); err != nil {
		return statetree.Node{}, err
	}

	return tree, nil
}

// findStatePayload walks every script element once and returns the best
// candidate by shape priority.
func findStatePayload(root *html.Node) (string, bool) {
	var nuxtData, legacy, appState string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" {
			text := strings.TrimSpace(textContent(n))

			switch {
			case attr(n, "id") == stateScriptID:
				if nuxtData == "" {
					nuxtData = text
				}
			case strings.HasPrefix(text, legacyPrefix):
				if legacy == "" {
					legacy = legacyObjectLiteral(text)
				}
			case attr(n, "type") == jsonScriptType && hasAttr(n, stateAttrName):
				if appState == "" {
					appState = text
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	switch {
	case nuxtData != "":
		return nuxtData, true
	case legacy != "":
		return legacy, true
	case appState != "":
		return appState, true
	}

	return "", false
}

// legacyObjectLiteral cuts the object literal out of a
// window.__NUXT__={...}; assignment. The literal spans the first opening
// brace through the last closing brace of the script text.
func legacyObjectLiteral(text string) string {
	rest := text[len(legacyPrefix):]
	start := strings.Index(rest, "{")
	end := strings.LastIndex(rest, "}")
	if start < 0 || end <= start {
		return ""
	}

	return rest[start : end+1]
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

func textContent(n *html.Node) string {
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			sb.WriteString(child.Data)
		}
	}

	return sb.String()
}
