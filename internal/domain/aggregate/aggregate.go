// Package aggregate merges team records into ranked standings.
package aggregate

import (
	"cmp"
	"maps"
	"slices"

	"github.com/okian/vbrank/internal/domain/model"
)

// Compare orders teams for ranking: total score descending, then first,
// second and third place counts descending. Equal teams compare as 0 and
// keep their relative order under a stable sort.
func Compare(a, b *model.AggregatedTeam) int {
	if c := cmp.Compare(b.TotalScore, a.TotalScore); c != 0 {
		return c
	}
	if c := cmp.Compare(b.PlacementTotals.First, a.PlacementTotals.First); c != 0 {
		return c
	}
	if c := cmp.Compare(b.PlacementTotals.Second, a.PlacementTotals.Second); c != 0 {
		return c
	}
	return cmp.Compare(b.PlacementTotals.Third, a.PlacementTotals.Third)
}

// Aggregate groups records by exact team name, sums their scores and
// placements, and ranks the result. Teams are first ordered by first
// appearance, so ties keep input order. Division and region come from the
// last record seen for a team.
func Aggregate(records []model.TeamRecord) model.Rankings {
	teams := merge(records)

	slices.SortStableFunc(teams, func(a, b model.AggregatedTeam) int {
		return Compare(&a, &b)
	})
	for i := range teams {
		teams[i].Rank = i + 1
	}

	return model.Rankings{
		Teams:            teams,
		DivisionRankings: partition(teams, func(t *model.AggregatedTeam) string { return t.Division }),
		RegionRankings:   partition(teams, func(t *model.AggregatedTeam) string { return string(t.Region) }),
		Summary:          summarize(teams),
	}
}

func merge(records []model.TeamRecord) []model.AggregatedTeam {
	teams := make([]model.AggregatedTeam, 0, len(records))
	index := make(map[string]int, len(records))
	for _, rec := range records {
		i, ok := index[rec.Name]
		if !ok {
			i = len(teams)
			index[rec.Name] = i
			teams = append(teams, model.AggregatedTeam{Name: rec.Name})
		}
		t := &teams[i]
		t.TotalScore += rec.DerivedScore
		t.PlacementTotals = t.PlacementTotals.Add(rec.Placements)
		t.TotalMedals = t.PlacementTotals.Medals()
		t.Division = rec.Division
		t.Region = rec.Region
		t.Tournaments++
		t.Contributions = append(t.Contributions, model.Contribution{
			SourceLabel: rec.SourceLabel,
			RecordID:    rec.ID,
			Placements:  rec.Placements,
			Score:       rec.DerivedScore,
		})
		t.Coaches = appendUnique(t.Coaches, rec.Coach)
		t.MVPs = appendUnique(t.MVPs, rec.MVP)
	}
	return teams
}

// partition builds an independently positioned view per key. The global
// Rank on each team is left untouched.
func partition(teams []model.AggregatedTeam, key func(*model.AggregatedTeam) string) map[string][]model.Standing {
	out := make(map[string][]model.Standing)
	for i := range teams {
		k := key(&teams[i])
		out[k] = append(out[k], model.Standing{AggregatedTeam: teams[i]})
	}
	for _, group := range out {
		slices.SortStableFunc(group, func(a, b model.Standing) int {
			return Compare(&a.AggregatedTeam, &b.AggregatedTeam)
		})
		for i := range group {
			group[i].Position = i + 1
		}
	}
	return out
}

func summarize(teams []model.AggregatedTeam) model.Summary {
	s := model.Summary{
		TotalTeams:     len(teams),
		DivisionCounts: make(map[string]int),
		RegionCounts:   make(map[string]int),
	}
	for i := range teams {
		s.DivisionCounts[teams[i].Division]++
		s.RegionCounts[string(teams[i].Region)]++
	}
	s.Divisions = sortedKeys(s.DivisionCounts)
	s.Regions = sortedKeys(s.RegionCounts)
	return s
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	return append(keys, slices.Sorted(maps.Keys(m))...)
}

func appendUnique(list []string, v string) []string {
	if v == "" || slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
