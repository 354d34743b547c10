package scale

import "math"

// Band places ordered categories into equal slots across [R0,R1]. Padding is
// the fraction of each step left empty between bands; the same fraction is
// kept at both outer edges.
type Band struct {
	categories []string
	index      map[string]int
	start      float64
	step       float64
	bandwidth  float64
}

// NewBand builds a band scale. Category order is preserved; duplicates keep
// their first slot.
func NewBand(categories []string, rangeMin, rangeMax, padding float64) Band {
	padding = math.Max(0, math.Min(1, padding))
	b := Band{
		categories: make([]string, 0, len(categories)),
		index:      make(map[string]int, len(categories)),
	}
	for _, c := range categories {
		if _, ok := b.index[c]; ok {
			continue
		}
		b.index[c] = len(b.categories)
		b.categories = append(b.categories, c)
	}
	n := float64(len(b.categories))
	span := rangeMax - rangeMin
	b.step = span / math.Max(1, n-padding+2*padding)
	b.start = rangeMin + (span-b.step*(n-padding))/2
	b.bandwidth = b.step * (1 - padding)
	return b
}

// Position returns the left edge of the category's band.
func (b Band) Position(category string) (float64, bool) {
	i, ok := b.index[category]
	if !ok {
		return 0, false
	}
	return b.start + b.step*float64(i), true
}

// Bandwidth is the width of a single band.
func (b Band) Bandwidth() float64 { return b.bandwidth }

// Step is the distance between the starts of adjacent bands.
func (b Band) Step() float64 { return b.step }

// Categories returns the domain in slot order.
func (b Band) Categories() []string {
	return append([]string(nil), b.categories...)
}
