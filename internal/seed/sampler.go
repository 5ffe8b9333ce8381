package seed

import (
	"math/rand/v2"

	"shop/admin/internal/config"
	"shop/admin/internal/domain"
)

// IntInRange draws a uniformly random integer in the closed range.
func IntInRange(r config.Range) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rand.IntN(r.Max-r.Min+1)
}

// SampleValues draws a count in the range, then that many values
// uniformly at random from the set with replacement, de-duplicated
// preserving first-seen order. The result is at most count long.
func SampleValues(set []string, r config.Range) []string {
	if len(set) == 0 {
		return nil
	}
	count := IntInRange(r)

	seen := make(map[string]struct{}, count)
	values := make([]string, 0, count)
	for i := 0; i < count; i++ {
		value := set[rand.IntN(len(set))]
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}
	return values
}

// SampleOne draws exactly one value from the set.
func SampleOne(set []string) string {
	return set[rand.IntN(len(set))]
}

// Sampler draws attribute values from the loaded value sets. The sets
// are read-only, so one Sampler is safely shared across concurrent jobs.
type Sampler struct {
	sets          domain.ValueSets
	footwearSlugs map[string]struct{}
}

func NewSampler(sets domain.ValueSets, footwearSlugs []string) *Sampler {
	footwear := make(map[string]struct{}, len(footwearSlugs))
	for _, slug := range footwearSlugs {
		footwear[slug] = struct{}{}
	}
	return &Sampler{
		sets:          sets,
		footwearSlugs: footwear,
	}
}

// Values samples a de-duplicated batch of values for the attribute kind.
func (s *Sampler) Values(kind domain.AttributeKind, r config.Range) []string {
	return SampleValues(s.sets[kind], r)
}

// One samples exactly one value for the attribute kind.
func (s *Sampler) One(kind domain.AttributeKind) string {
	return SampleOne(s.sets[kind])
}

// SizeKind returns the size attribute to sample for a category slug:
// shoe sizes for footwear categories, the general size set otherwise.
// A pure allow-list lookup.
func (s *Sampler) SizeKind(slug string) domain.AttributeKind {
	if _, ok := s.footwearSlugs[slug]; ok {
		return domain.KindShoeSize
	}
	return domain.KindSize
}
