// Package metrics measures a toolpath: total cutting length and the time it
// takes at a given feed rate.
package metrics

import (
	"fmt"

	"github.com/chazu/dannycam/pkg/geom"
	"gopkg.in/yaml.v3"
)

// Summary is the measured size of a toolpath.
type Summary struct {
	Curves   int     `yaml:"curves"`
	Segments int     `yaml:"segments"`
	Length   float64 `yaml:"length_mm"`
	FeedXY   float64 `yaml:"feed_mm_per_min"`
	Minutes  float64 `yaml:"cut_minutes"`
	Bounds   *Bounds `yaml:"bounds,omitempty"`
}

// Bounds is the XY extent of the toolpath.
type Bounds struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

// Measure sums the length of every segment in tp. Lines count their
// Euclidean length, arcs their radius times the swept angle; an arc that
// starts and ends at the same point is a full circle. A non-positive feed
// rate leaves Minutes at zero.
func Measure(tp geom.Toolpath, feedXY float64) Summary {
	s := Summary{Curves: len(tp), FeedXY: feedXY}
	for _, c := range tp {
		for _, seg := range c.Segments() {
			s.Segments++
			s.Length += seg.Length()
		}
	}
	if feedXY > 0 {
		s.Minutes = s.Length / feedXY
	}
	if b := tp.Bounds(); !b.IsEmpty() {
		s.Bounds = &Bounds{MinX: b.Min.X, MinY: b.Min.Y, MaxX: b.Max.X, MaxY: b.Max.Y}
	}
	return s
}

// String returns the one-line human summary.
func (s Summary) String() string {
	return fmt.Sprintf("Total path length: %.2fmm\tCut time at %.0fmm/min is %.2f min",
		s.Length, s.FeedXY, s.Minutes)
}

// YAML renders the summary as a YAML document.
func (s Summary) YAML() ([]byte, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("metrics: marshal summary: %w", err)
	}
	return out, nil
}
