// Package colormatch finds perceptually near neighbours of a color name
// within a fixed table of known colors. It is used by the seed pipeline
// to turn sampled color attribute values into safe keywords for image
// synthesis.
package colormatch

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ErrUnknownColor is returned when a name is not a recognized CSS color
// keyword. It signals a caller bug, not a transient condition.
var ErrUnknownColor = errors.New("unknown color")

type entry struct {
	name  string
	color colorful.Color
}

// Matcher holds the immutable reference table. Safe for concurrent use.
type Matcher struct {
	table []entry
}

// New builds a matcher from the given color names, skipping names listed
// in exclude (non-physical values like "multicolor" that have no RGB
// representation). Every remaining name must be a known color keyword.
func New(names []string, exclude []string) (*Matcher, error) {
	excluded := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		excluded[name] = struct{}{}
	}

	table := make([]entry, 0, len(names))
	for _, name := range names {
		if _, ok := excluded[name]; ok {
			continue
		}
		c, err := parse(name)
		if err != nil {
			return nil, err
		}
		table = append(table, entry{name: name, color: c})
	}

	return &Matcher{table: table}, nil
}

// Nearest returns the names of table colors whose perceptual difference
// from any of the query colors is strictly below threshold, sorted
// ascending by difference. Threshold is in classic CIE76 delta-E units.
// The union across queries is not de-duplicated: a table color near two
// query colors appears twice.
func (m *Matcher) Nearest(queries []string, threshold float64) ([]string, error) {
	type match struct {
		name string
		diff float64
	}

	var matches []match
	for _, query := range queries {
		queryColor, err := parse(query)
		if err != nil {
			return nil, err
		}
		for _, e := range m.table {
			diff := deltaE(queryColor, e.color)
			if diff < threshold {
				matches = append(matches, match{name: e.name, diff: diff})
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].diff < matches[j].diff
	})

	names := make([]string, 0, len(matches))
	for _, hit := range matches {
		names = append(names, hit.name)
	}
	return names, nil
}

func parse(name string) (colorful.Color, error) {
	rgba, ok := colornames.Map[name]
	if !ok {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, name)
	}
	return colorful.Color{
		R: float64(rgba.R) / 255,
		G: float64(rgba.G) / 255,
		B: float64(rgba.B) / 255,
	}, nil
}

// deltaE is the CIE76 color difference scaled to classic units, where
// a distance below ~2.3 is imperceptible to humans.
func deltaE(a, b colorful.Color) float64 {
	return a.DistanceCIE76(b) * 100
}
