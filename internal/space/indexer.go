package space

import (
	"fmt"

	"github.com/GoSim-25-26J-441/teso/pkg/config"
)

// CategoryIndexer maps categorical labels to dense integer codes and back
type CategoryIndexer struct {
	labels []string
	codes  map[string]int
}

// NewCategoryIndexer builds an indexer over labels in the given order.
// At least two distinct, non-empty labels are required.
func NewCategoryIndexer(labels []string) (*CategoryIndexer, error) {
	if len(labels) < 2 {
		return nil, &config.ConfigurationError{Field: "categories", Reason: fmt.Sprintf("need at least 2 labels, got %d", len(labels))}
	}
	idx := &CategoryIndexer{
		labels: make([]string, len(labels)),
		codes:  make(map[string]int, len(labels)),
	}
	for i, l := range labels {
		if l == "" {
			return nil, &config.ConfigurationError{Field: "categories", Reason: fmt.Sprintf("label %d is empty", i)}
		}
		if _, dup := idx.codes[l]; dup {
			return nil, &config.ConfigurationError{Field: "categories", Reason: fmt.Sprintf("duplicate label %q", l)}
		}
		idx.labels[i] = l
		idx.codes[l] = i
	}
	return idx, nil
}

// Code returns the code of label
func (c *CategoryIndexer) Code(label string) (int, bool) {
	code, ok := c.codes[label]
	return code, ok
}

// Label returns the label of code
func (c *CategoryIndexer) Label(code int) (string, error) {
	if code < 0 || code >= len(c.labels) {
		return "", &ConsistencyError{Code: code, Reason: fmt.Sprintf("code outside [0, %d)", len(c.labels))}
	}
	return c.labels[code], nil
}

// Len returns the number of labels
func (c *CategoryIndexer) Len() int { return len(c.labels) }

// Labels returns a copy of the labels in code order
func (c *CategoryIndexer) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}
