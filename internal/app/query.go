package service

import (
	"fmt"

	"github.com/okian/vbrank/internal/adapters/output"
	"github.com/okian/vbrank/internal/domain/extract"
	"github.com/okian/vbrank/internal/domain/model"
	"github.com/okian/vbrank/internal/domain/region"
)

// Latest returns the most recent document.
func (s *Service) Latest() (*output.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, ErrNotReady
	}
	return s.latest, nil
}

// Top returns up to n teams from the overall ranking. n <= 0 returns all.
func (s *Service) Top(n int) ([]model.AggregatedTeam, error) {
	doc, err := s.Latest()
	if err != nil {
		return nil, err
	}
	teams := doc.Teams
	if n > 0 && n < len(teams) {
		teams = teams[:n]
	}
	return teams, nil
}

// Division returns the ranking inside one division.
func (s *Service) Division(name string) ([]model.Standing, error) {
	doc, err := s.Latest()
	if err != nil {
		return nil, err
	}
	name = extract.NormalizeSpace(name)
	standings, ok := doc.DivisionRankings[name]
	if !ok {
		return nil, fmt.Errorf("%w: division %q", ErrNotFound, name)
	}
	return standings, nil
}

// Region returns the ranking inside one macro-region. A city or province
// name is resolved to its macro-region first.
func (s *Service) Region(name string) ([]model.Standing, error) {
	doc, err := s.Latest()
	if err != nil {
		return nil, err
	}
	name = extract.NormalizeSpace(name)
	if standings, ok := doc.RegionRankings[name]; ok {
		return standings, nil
	}
	resolved := region.Resolve(name)
	if standings, ok := doc.RegionRankings[string(resolved)]; ok && resolved != model.RegionUnknown {
		return standings, nil
	}
	return nil, fmt.Errorf("%w: region %q", ErrNotFound, name)
}

// Team returns one aggregated team by name.
func (s *Service) Team(name string) (model.AggregatedTeam, error) {
	doc, err := s.Latest()
	if err != nil {
		return model.AggregatedTeam{}, err
	}
	name = extract.NormalizeSpace(name)
	for _, t := range doc.Teams {
		if t.Name == name {
			return t, nil
		}
	}
	return model.AggregatedTeam{}, fmt.Errorf("%w: team %q", ErrNotFound, name)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"runs":               s.runs,
		"configuredSources":  len(s.sources),
		"indexURL":           s.indexURL,
		"regionTableVersion": region.TableVersion,
	}
	if s.latest == nil {
		return stats
	}

	failed := 0
	for _, r := range s.latest.Metadata.Sources {
		if r.Failed() {
			failed++
		}
	}
	stats["lastRunId"] = s.latest.Metadata.RunID
	stats["generatedAt"] = s.latest.Metadata.GeneratedAt
	stats["totalTeams"] = s.latest.Summary.TotalTeams
	stats["sources"] = len(s.latest.Metadata.Sources)
	stats["failedSources"] = failed
	stats["fallbackSample"] = s.latest.Metadata.FallbackSample
	stats["rows"] = s.latest.Metadata.Totals
	return stats
}
