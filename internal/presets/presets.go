// Package presets offers canned example queries.
package presets

import "math/rand/v2"

// Picker hands out preset queries, never repeating the current text
type Picker struct {
	queries []string
	intn    func(n int) int
}

func NewPicker(queries []string) *Picker {
	return &Picker{
		queries: append([]string(nil), queries...),
		intn:    rand.IntN,
	}
}

// Queries returns the preset list
func (p *Picker) Queries() []string {
	return append([]string(nil), p.queries...)
}

// Next returns a random preset that differs from current.
// ok is false when there is no such preset.
func (p *Picker) Next(current string) (query string, ok bool) {
	candidates := make([]string, 0, len(p.queries))
	for _, q := range p.queries {
		if q != current {
			candidates = append(candidates, q)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[p.intn(len(candidates))], true
}
