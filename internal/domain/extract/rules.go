package extract

import "strings"

// Category is a finishing position tracked by placement counts.
type Category int

// Placement categories.
const (
	CategoryNone Category = iota
	CategoryFirst
	CategorySecond
	CategoryThird
)

// PlacementRule classifies a numeric column by its label. Rules are tried in
// order and the first rule with a token contained in the label wins, so
// specific markers (준우승) must precede the markers they contain (우승).
type PlacementRule struct {
	Category Category
	Tokens   []string
	// Marker is set for textual markers. A non-numeric value under a
	// marker column counts as a malformed numeric field; bare digit rules
	// are too weak a hint for that.
	Marker bool
}

// RankingRule maps a free-text ranking cell (e.g. "준우승") to one placement.
type RankingRule struct {
	Category Category
	Contains []string
	Exact    []string
}

// DefaultMaxCount is the placement count limit used when Rules leaves
// MaxCount unset.
const DefaultMaxCount = 10_000

// Rules is the data that drives field inference. New source formats add
// aliases or markers here without touching the inference code.
type Rules struct {
	NameLabels     []string
	DivisionLabels []string
	CoachLabels    []string
	MVPLabels      []string
	RankingLabels  []string

	// DivisionMarker denotes a competition bracket, e.g. 남자클럽3부.
	DivisionMarker string
	// NameMarkerMinLen is the length above which a value carrying the
	// division marker is still accepted as a (compound) team name.
	NameMarkerMinLen int
	// DivisionMaxLen bounds heuristic division candidates.
	DivisionMaxLen int
	// MaxCount is the largest placement count taken from a cell. Larger
	// values are treated as malformed and contribute zero.
	MaxCount int

	Placements []PlacementRule
	Rankings   []RankingRule
}

// DefaultRules returns the rule set for Korean volleyball result sheets.
func DefaultRules() Rules {
	return Rules{
		NameLabels:     []string{"팀명", "팀 명", "팀이름", "클럽명", "team", "team name", "team_name"},
		DivisionLabels: []string{"부별", "참가부별", "부별구분", "대회부별", "종별", "division"},
		CoachLabels:    []string{"감독", "감독명", "coach"},
		MVPLabels:      []string{"최우수선수", "mvp"},
		RankingLabels:  []string{"순위", "성적", "입상", "ranking"},

		DivisionMarker:   "부",
		NameMarkerMinLen: 10,
		DivisionMaxLen:   20,
		MaxCount:         DefaultMaxCount,

		Placements: []PlacementRule{
			{Category: CategorySecond, Tokens: []string{"준우승", "2위", "은메달", "runner", "second", "silver"}, Marker: true},
			{Category: CategoryFirst, Tokens: []string{"우승", "1위", "금메달", "first", "gold", "win"}, Marker: true},
			{Category: CategoryThird, Tokens: []string{"3위", "삼위", "동메달", "third", "bronze"}, Marker: true},
			{Category: CategoryFirst, Tokens: []string{"1"}},
			{Category: CategorySecond, Tokens: []string{"2"}},
			{Category: CategoryThird, Tokens: []string{"3", "삼"}},
		},
		Rankings: []RankingRule{
			{Category: CategorySecond, Contains: []string{"준우승", "2위"}, Exact: []string{"2"}},
			{Category: CategoryFirst, Contains: []string{"우승", "1위"}, Exact: []string{"1"}},
			{Category: CategoryThird, Contains: []string{"3위"}, Exact: []string{"3"}},
		},
	}
}

// classify returns the placement rule matching label, if any.
func (r Rules) classify(label string) (PlacementRule, bool) {
	for _, rule := range r.Placements {
		for _, tok := range rule.Tokens {
			if strings.Contains(label, tok) {
				return rule, true
			}
		}
	}
	return PlacementRule{}, false
}

// ranking maps a ranking cell to a category.
func (r Rules) ranking(value string) Category {
	for _, rule := range r.Rankings {
		for _, e := range rule.Exact {
			if value == e {
				return rule.Category
			}
		}
		for _, c := range rule.Contains {
			if strings.Contains(value, c) {
				return rule.Category
			}
		}
	}
	return CategoryNone
}
