package model

// Region is a macro-region bucket used to group teams geographically.
type Region string

// Macro-regions. Unknown is assigned when no city or province matches.
const (
	RegionCapital     Region = "수도권"
	RegionGyeongsang  Region = "경상권"
	RegionJeolla      Region = "전라권"
	RegionChungcheong Region = "충청권"
	RegionGangwon     Region = "강원권"
	RegionJeju        Region = "제주권"
	RegionUnknown     Region = "기타"
)

// Placements counts finishing positions.
type Placements struct {
	First  int `json:"firstPlace"`
	Second int `json:"secondPlace"`
	Third  int `json:"thirdPlace"`
}

// Add returns the element-wise sum of p and o.
func (p Placements) Add(o Placements) Placements {
	return Placements{
		First:  p.First + o.First,
		Second: p.Second + o.Second,
		Third:  p.Third + o.Third,
	}
}

// Medals returns the total number of podium finishes.
func (p Placements) Medals() int { return p.First + p.Second + p.Third }

// IsZero reports whether no placement was recorded.
func (p Placements) IsZero() bool { return p == Placements{} }

// TeamRecord is a single team extracted from one row of one source.
type TeamRecord struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Division     string     `json:"division"`
	Region       Region     `json:"region"`
	Placements   Placements `json:"placementCounts"`
	TotalMedals  int        `json:"totalMedals"`
	DerivedScore int        `json:"derivedScore"`
	SourceLabel  string     `json:"sourceLabel"`
	Coach        string     `json:"coach,omitempty"`
	MVP          string     `json:"mvp,omitempty"`
}

// Contribution is one record's share of an aggregated team.
type Contribution struct {
	SourceLabel string     `json:"sourceLabel"`
	RecordID    string     `json:"recordId"`
	Placements  Placements `json:"placementCounts"`
	Score       int        `json:"score"`
}

// AggregatedTeam merges every record that carries the same team name.
type AggregatedTeam struct {
	Name            string         `json:"name"`
	Division        string         `json:"division"`
	Region          Region         `json:"region"`
	TotalScore      int            `json:"totalScore"`
	PlacementTotals Placements     `json:"placementTotals"`
	TotalMedals     int            `json:"totalMedals"`
	Tournaments     int            `json:"tournaments"`
	Contributions   []Contribution `json:"contributions"`
	Coaches         []string       `json:"coaches,omitempty"`
	MVPs            []string       `json:"mvps,omitempty"`
	Rank            int            `json:"rank"`
}

// Standing is a team's place inside a partitioned ranking. Rank on the
// embedded team always stays the global rank.
type Standing struct {
	Position int `json:"position"`
	AggregatedTeam
}

// Summary holds result counts.
type Summary struct {
	TotalTeams     int            `json:"totalTeams"`
	DivisionCounts map[string]int `json:"divisionCounts"`
	RegionCounts   map[string]int `json:"regionCounts"`
	Divisions      []string       `json:"divisions"`
	Regions        []string       `json:"regions"`
}

// Rankings is the aggregator output.
type Rankings struct {
	Teams            []AggregatedTeam      `json:"teams"`
	DivisionRankings map[string][]Standing `json:"divisionRankings"`
	RegionRankings   map[string][]Standing `json:"regionRankings"`
	Summary          Summary               `json:"summary"`
}
