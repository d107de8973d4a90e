package encar

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"listing-sync/core/reconcile"

	"golang.org/x/net/html"
)

var (
	// ErrNoInsuranceData is returned when the page has no summary table.
	ErrNoInsuranceData = errors.New("insurance summary not found")
	// ErrMalformedInsurance is returned when the summary cannot be read.
	ErrMalformedInsurance = errors.New("malformed insurance summary")
)

// summaryFields names the summary cells in page order.
var summaryFields = []string{
	reconcile.FieldGeneral,
	reconcile.FieldBusinessUse,
	reconcile.FieldPlateAndOwner,
	reconcile.FieldIrreparable,
	reconcile.FieldSelfDamage,
	reconcile.FieldThirdPartyDamage,
}

// ParseInsurance reads an insurance-history page.
//
// The summary table (div.rreport div.summary td) becomes string fields, and the
// "plate/owner" cell ("1회/2회") is split into the plate_changed and owner_changed
// counts. A page showing the no-lookup marker yields an unavailable record.
func ParseInsurance(r io.Reader) (*reconcile.InsuranceRecord, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	if strings.Contains(textContent(doc), reconcile.InsuranceUnavailableMarker) {
		return &reconcile.InsuranceRecord{Unavailable: true, Fields: map[string]any{}}, nil
	}

	report := findElement(doc, "div", "rreport")
	if report == nil {
		return nil, ErrNoInsuranceData
	}
	summary := findElement(report, "div", "summary")
	if summary == nil {
		return nil, ErrNoInsuranceData
	}

	var values []string
	walk(summary, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "td" {
			if text := strings.TrimSpace(textContent(n)); text != "" {
				values = append(values, text)
			}
		}
	})
	if len(values) < len(summaryFields) {
		return nil, fmt.Errorf("%w: %d of %d cells", ErrMalformedInsurance, len(values), len(summaryFields))
	}

	fields := make(map[string]any, len(summaryFields)+2)
	for i, name := range summaryFields {
		fields[name] = values[i]
	}

	plate, owner, err := splitPlateAndOwner(values[2])
	if err != nil {
		return nil, err
	}
	fields[reconcile.FieldPlateChanged] = plate
	fields[reconcile.FieldOwnerChanged] = owner

	return &reconcile.InsuranceRecord{Fields: fields}, nil
}

func splitPlateAndOwner(cell string) (int, int, error) {
	plateRaw, ownerRaw, ok := strings.Cut(strings.ReplaceAll(cell, "회", ""), "/")
	if !ok {
		return 0, 0, fmt.Errorf("%w: plate and owner %q", ErrMalformedInsurance, cell)
	}
	plate, err := strconv.Atoi(strings.TrimSpace(plateRaw))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: plate changes %q", ErrMalformedInsurance, plateRaw)
	}
	owner, err := strconv.Atoi(strings.TrimSpace(ownerRaw))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: owner changes %q", ErrMalformedInsurance, ownerRaw)
	}
	return plate, owner, nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// findElement returns the first descendant with the tag and class, depth first.
func findElement(n *html.Node, tag, class string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag && hasClass(c, class) {
			return c
		}
		if found := findElement(c, tag, class); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, c := range strings.Fields(attr.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
	})
	return b.String()
}
