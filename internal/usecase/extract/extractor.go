// Package extract parses the rendered result list into product records.
package extract

import (
	"context"
	"strings"

	"golang.org/x/net/html"

	"satellite-agent/internal/application/port/output"
	"satellite-agent/internal/domain/entity"
	"satellite-agent/internal/usecase/query"
)

const (
	itemClass  = "search-result-item"
	titleClass = "product-title"
	dateClass  = "acquisition-date"
	idAttr     = "data-product-id"
)

type Extractor struct {
	log output.LoggerPort
}

func NewExtractor(log output.LoggerPort) *Extractor {
	return &Extractor{log: log}
}

// Extract reads every rendered result element in visual order. It never
// fails the overall search: a missing container or zero items yields an
// empty slice, a field absent on one element becomes "Unknown", and an
// element with nothing usable at all is logged and skipped whole.
func (e *Extractor) Extract(ctx context.Context, s output.BrowserSession) []entity.ProductRecord {
	raw, err := s.HTML(ctx, query.ResultContainer)
	if err != nil {
		e.log.Warn("result container not found", "error", err)
		return nil
	}

	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		e.log.Warn("result HTML did not parse", "error", err)
		return nil
	}

	var records []entity.ProductRecord
	for _, item := range findByClass(doc, itemClass) {
		res := extractItem(item)
		if res.skip != "" {
			e.log.Warn("skipping result element", "reason", res.skip)
			continue
		}
		records = append(records, res.record)
	}

	e.log.Info("extracted search results", "count", len(records))
	return records
}

// itemResult is the per-element outcome: a record, or a reason the element
// was dropped.
type itemResult struct {
	record entity.ProductRecord
	skip   string
}

func extractItem(n *html.Node) itemResult {
	rec := entity.ProductRecord{
		ID:              entity.UnknownField,
		Title:           entity.UnknownField,
		AcquisitionDate: entity.UnknownField,
		Source:          entity.SourceTag,
	}

	found := 0
	if id := attrValue(n, idAttr); strings.TrimSpace(id) != "" {
		rec.ID = strings.TrimSpace(id)
		found++
	}
	if t := textByClass(n, titleClass); strings.TrimSpace(t) != "" {
		rec.Title = strings.TrimSpace(t)
		found++
	}
	if d := textByClass(n, dateClass); strings.TrimSpace(d) != "" {
		rec.AcquisitionDate = strings.TrimSpace(d)
		found++
	}

	if found == 0 && strings.TrimSpace(textContent(n)) == "" {
		return itemResult{skip: "element carries no product data"}
	}
	return itemResult{record: rec}
}

func findByClass(root *html.Node, class string) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, class) {
			out = append(out, n)
		}
	})
	return out
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textByClass returns the text of the first descendant carrying the class,
// or "" when no such descendant exists.
func textByClass(root *html.Node, class string) string {
	nodes := findByClass(root, class)
	if len(nodes) == 0 {
		return ""
	}
	return textContent(nodes[0])
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}
