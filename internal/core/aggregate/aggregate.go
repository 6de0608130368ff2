// Package aggregate counts resolved labels into the (Country, Connections) table
package aggregate

import (
	"sort"

	"linkmap/internal/core/resolver"
)

// Table column names
const (
	ColCountry     = "Country"
	ColConnections = "Connections"
)

// Columns is the header of the aggregate table
var Columns = []string{ColCountry, ColConnections}

// Count is one aggregate row, Connections >= 1
type Count struct {
	Country     string `json:"country"`
	Connections int    `json:"connections"`
}

// RuleCount is how many rows one rule resolved
type RuleCount struct {
	Rule resolver.Rule `json:"rule"`
	Rows int           `json:"rows"`
}

// Counter accumulates resolutions. Not safe for concurrent use
type Counter struct {
	labels map[string]int
	rules  map[resolver.Rule]int
	total  int
}

// NewCounter returns an empty Counter
func NewCounter() *Counter {
	return &Counter{labels: map[string]int{}, rules: map[resolver.Rule]int{}}
}

// Add records one resolved row
func (c *Counter) Add(r resolver.Resolution) {
	c.AddLabel(r.Label)
	c.rules[r.Rule]++
}

// AddLabel records a label without rule attribution
func (c *Counter) AddLabel(label string) {
	c.labels[label]++
	c.total++
}

// Total is the number of rows added
func (c *Counter) Total() int { return c.total }

// Counts returns rows by descending count, ties by ascending country
func (c *Counter) Counts() []Count {
	out := make([]Count, 0, len(c.labels))
	for k, v := range c.labels {
		out = append(out, Count{Country: k, Connections: v})
	}
	Sort(out)
	return out
}

// ByRule returns non zero rule counts in decision order
func (c *Counter) ByRule() []RuleCount {
	out := make([]RuleCount, 0, len(c.rules))
	for _, r := range resolver.Rules {
		if n := c.rules[r]; n > 0 {
			out = append(out, RuleCount{Rule: r, Rows: n})
		}
	}
	return out
}

// Labels counts a plain label list
func Labels(labels []string) []Count {
	c := NewCounter()
	for _, l := range labels {
		c.AddLabel(l)
	}
	return c.Counts()
}

// Sort orders counts in place, descending count then ascending country
func Sort(counts []Count) {
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Connections != counts[j].Connections {
			return counts[i].Connections > counts[j].Connections
		}
		return counts[i].Country < counts[j].Country
	})
}

// Sum adds up Connections
func Sum(counts []Count) int {
	n := 0
	for _, c := range counts {
		n += c.Connections
	}
	return n
}

// Top returns at most n leading rows, n <= 0 returns all
func Top(counts []Count, n int) []Count {
	if n <= 0 || n >= len(counts) {
		return counts
	}
	return counts[:n]
}

// Without drops one label, used to chart known countries only
func Without(counts []Count, label string) []Count {
	out := make([]Count, 0, len(counts))
	for _, c := range counts {
		if c.Country != label {
			out = append(out, c)
		}
	}
	return out
}
