package services

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// AmenityPrefix marks amenity one-hot columns in the short-term model schema
const AmenityPrefix = "amenity__"

// AmenityCatalog maps human-readable amenity labels to model columns and back.
// It is derived once from the short-term model's feature names.
type AmenityCatalog struct {
	labelToColumn map[string]string
	columnToLabel map[string]string
	foldedLabels  map[string]string // lower-case label -> canonical label
	columns       []string          // schema order
}

// NewAmenityCatalog builds the catalog from an ordered feature-name list.
// Two columns that clean up to the same label make the catalog ambiguous and are rejected.
func NewAmenityCatalog(featureNames []string) (*AmenityCatalog, error) {
	c := &AmenityCatalog{
		labelToColumn: make(map[string]string),
		columnToLabel: make(map[string]string),
		foldedLabels:  make(map[string]string),
	}
	for _, name := range featureNames {
		if !strings.HasPrefix(name, AmenityPrefix) {
			continue
		}
		if _, dup := c.columnToLabel[name]; dup {
			return nil, fmt.Errorf("amenity column %q appears twice in schema", name)
		}
		label := AmenityLabel(name)
		if other, clash := c.labelToColumn[label]; clash {
			return nil, fmt.Errorf("amenity columns %q and %q both map to label %q", other, name, label)
		}
		c.labelToColumn[label] = name
		c.columnToLabel[name] = label
		folded := strings.ToLower(label)
		if _, seen := c.foldedLabels[folded]; !seen {
			c.foldedLabels[folded] = label
		}
		c.columns = append(c.columns, name)
	}
	return c, nil
}

// AmenityLabel turns a raw column such as "amenity__city_skyline_view_" into "City Skyline View".
func AmenityLabel(column string) string {
	x := strings.TrimPrefix(column, AmenityPrefix)
	x = strings.TrimRight(x, "_")
	x = strings.ReplaceAll(x, "_", " ")
	// the scraper stored en dashes as their escaped code point
	x = strings.ReplaceAll(x, "u2013", "–")
	return titleCase(strings.TrimSpace(x))
}

// titleCase upper-cases every letter that follows a non-letter and lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

// Column resolves a label to its schema column. Exact matches win; otherwise the
// lookup ignores case so labels saved by older catalog versions still resolve.
func (c *AmenityCatalog) Column(label string) (string, bool) {
	if col, ok := c.labelToColumn[label]; ok {
		return col, true
	}
	canonical, ok := c.foldedLabels[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return "", false
	}
	return c.labelToColumn[canonical], true
}

// Label returns the label of an amenity column
func (c *AmenityCatalog) Label(column string) (string, bool) {
	label, ok := c.columnToLabel[column]
	return label, ok
}

// Columns returns the amenity columns in schema order
func (c *AmenityCatalog) Columns() []string {
	return append([]string(nil), c.columns...)
}

// Labels returns all labels sorted alphabetically
func (c *AmenityCatalog) Labels() []string {
	labels := make([]string, 0, len(c.labelToColumn))
	for label := range c.labelToColumn {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Len returns the number of amenities
func (c *AmenityCatalog) Len() int {
	return len(c.columns)
}

// Normalize maps stored labels onto canonical catalog labels and drops the ones
// the catalog no longer knows.
func (c *AmenityCatalog) Normalize(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		col, ok := c.Column(l)
		if !ok {
			continue
		}
		canonical := c.columnToLabel[col]
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}
	return out
}
