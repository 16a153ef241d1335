// Package scoring computes the derived score used as the primary ranking key.
package scoring

import "github.com/okian/vbrank/internal/domain/model"

// Placement weights. The weighting is part of the ranking contract and is
// not configurable.
const (
	FirstPlaceWeight  = 3
	SecondPlaceWeight = 2
	ThirdPlaceWeight  = 1
)

// Derived returns first*3 + second*2 + third*1.
func Derived(p model.Placements) int {
	return p.First*FirstPlaceWeight + p.Second*SecondPlaceWeight + p.Third*ThirdPlaceWeight
}

// Record fills the derived fields of r from its placement counts.
func Record(r *model.TeamRecord) {
	r.TotalMedals = r.Placements.Medals()
	r.DerivedScore = Derived(r.Placements)
}
