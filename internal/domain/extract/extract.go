// Package extract turns loosely labelled result rows into team records.
//
// Column labels vary between source files, so fields are inferred from cell
// content with label aliases as the stronger hint:
//   - name: a known name label, else the longest non-numeric value that does
//     not look like a division;
//   - division: a known division label, else the first short value carrying
//     the division marker;
//   - region: derived from the first token of the name;
//   - placements: numeric cells classified by label markers.
//
// Rows without a usable name or division are rejected and tallied, never
// reported as errors.
package extract

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/okian/vbrank/internal/domain/model"
	"github.com/okian/vbrank/internal/domain/region"
	"github.com/okian/vbrank/internal/domain/scoring"
)

// Reason describes why a row did or did not produce a record.
type Reason int

// Row outcomes.
const (
	ReasonAccepted Reason = iota
	ReasonMissingName
	ReasonMissingDivision
)

func (r Reason) String() string {
	switch r {
	case ReasonAccepted:
		return "accepted"
	case ReasonMissingName:
		return "missing_name"
	case ReasonMissingDivision:
		return "missing_division"
	default:
		return "unknown"
	}
}

// Outcome is the per-row diagnostic returned alongside a record.
type Outcome struct {
	Reason Reason
	// MalformedNumeric counts placement cells that held non-numeric text
	// or a count above the rule limit. Each contributed zero.
	MalformedNumeric int
}

// Accepted reports whether the row produced a record.
func (o Outcome) Accepted() bool { return o.Reason == ReasonAccepted }

// Tally accumulates row outcomes for one extraction pass.
type Tally struct {
	Rows               int `json:"rows"`
	Accepted           int `json:"accepted"`
	Rejected           int `json:"rejected"`
	RejectedNoName     int `json:"rejectedNoName"`
	RejectedNoDivision int `json:"rejectedNoDivision"`
	MalformedNumeric   int `json:"malformedNumeric"`
}

// Observe records one outcome.
func (t *Tally) Observe(o Outcome) {
	t.Rows++
	t.MalformedNumeric += o.MalformedNumeric
	switch o.Reason {
	case ReasonAccepted:
		t.Accepted++
	case ReasonMissingName:
		t.Rejected++
		t.RejectedNoName++
	case ReasonMissingDivision:
		t.Rejected++
		t.RejectedNoDivision++
	}
}

// Merge adds o into t.
func (t *Tally) Merge(o Tally) {
	t.Rows += o.Rows
	t.Accepted += o.Accepted
	t.Rejected += o.Rejected
	t.RejectedNoName += o.RejectedNoName
	t.RejectedNoDivision += o.RejectedNoDivision
	t.MalformedNumeric += o.MalformedNumeric
}

type role int

const (
	roleNone role = iota
	roleName
	roleDivision
	roleCoach
	roleMVP
	roleRanking
)

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithRules replaces the default inference rules.
func WithRules(r Rules) Option {
	return func(e *Extractor) {
		e.rules = r
	}
}

// Extractor infers team records from raw rows. It holds no per-row state and
// is safe for concurrent use once constructed.
type Extractor struct {
	rules Rules
	roles map[string]role
}

// New creates an Extractor with the default rules unless overridden.
func New(opts ...Option) *Extractor {
	e := &Extractor{rules: DefaultRules()}
	for _, opt := range opts {
		opt(e)
	}
	if e.rules.MaxCount <= 0 {
		e.rules.MaxCount = DefaultMaxCount
	}
	e.roles = make(map[string]role)
	assign := func(labels []string, r role) {
		for _, l := range labels {
			key := normalizeLabel(l)
			if _, taken := e.roles[key]; !taken {
				e.roles[key] = r
			}
		}
	}
	assign(e.rules.NameLabels, roleName)
	assign(e.rules.DivisionLabels, roleDivision)
	assign(e.rules.CoachLabels, roleCoach)
	assign(e.rules.MVPLabels, roleMVP)
	assign(e.rules.RankingLabels, roleRanking)
	return e
}

// cell is a row cell prepared for inference.
type cell struct {
	label string // normalized
	value string // trimmed
	role  role
}

func (e *Extractor) prepare(row model.RawRow) []cell {
	cells := make([]cell, 0, row.Len())
	row.Each(func(label, value string) {
		l := normalizeLabel(label)
		cells = append(cells, cell{label: l, value: strings.TrimSpace(value), role: e.roles[l]})
	})
	return cells
}

// Extract converts one row into a record. sourceLabel is stamped on the
// record for provenance.
func (e *Extractor) Extract(row model.RawRow, sourceLabel string) (model.TeamRecord, Outcome) {
	cells := e.prepare(row)

	var out Outcome
	placements, matched, malformed := e.inferPlacements(cells)
	out.MalformedNumeric = malformed
	if !matched {
		placements = e.inferRankingPlacement(cells)
	}

	name := e.inferName(cells)
	if name == "" {
		out.Reason = ReasonMissingName
		return model.TeamRecord{}, out
	}
	division := e.inferDivision(cells, name)
	if division == "" {
		out.Reason = ReasonMissingDivision
		return model.TeamRecord{}, out
	}

	rec := model.TeamRecord{
		ID:          Identifier(name, division),
		Name:        name,
		Division:    division,
		Region:      region.FromName(name),
		Placements:  placements,
		SourceLabel: sourceLabel,
		Coach:       firstByRole(cells, roleCoach),
		MVP:         firstByRole(cells, roleMVP),
	}
	scoring.Record(&rec)
	out.Reason = ReasonAccepted
	return rec, out
}

// ExtractAll runs Extract over rows and returns the accepted records in row
// order together with the tally for the pass.
func (e *Extractor) ExtractAll(rows []model.RawRow, sourceLabel string) ([]model.TeamRecord, Tally) {
	var tally Tally
	records := make([]model.TeamRecord, 0, len(rows))
	for _, row := range rows {
		rec, out := e.Extract(row, sourceLabel)
		tally.Observe(out)
		if out.Accepted() {
			records = append(records, rec)
		}
	}
	return records, tally
}

func (e *Extractor) inferName(cells []cell) string {
	if v := firstByRole(cells, roleName); v != "" {
		return v
	}
	best, bestLen := "", 0
	for _, c := range cells {
		if c.value == "" || isNumeric(c.value) {
			continue
		}
		switch c.role {
		case roleCoach, roleMVP, roleRanking, roleDivision:
			continue
		}
		candidate := NormalizeSpace(c.value)
		n := utf8.RuneCountInString(candidate)
		if n <= bestLen {
			continue
		}
		if strings.Contains(candidate, e.rules.DivisionMarker) && n <= e.rules.NameMarkerMinLen {
			continue
		}
		best, bestLen = candidate, n
	}
	return best
}

// inferDivision skips the value already taken as the name; city prefixes
// such as 부산 carry the division marker too.
func (e *Extractor) inferDivision(cells []cell, name string) string {
	if v := firstByRole(cells, roleDivision); v != "" {
		return v
	}
	for _, c := range cells {
		if c.value == "" || c.role != roleNone || NormalizeSpace(c.value) == name {
			continue
		}
		if strings.Contains(c.value, e.rules.DivisionMarker) && utf8.RuneCountInString(c.value) < e.rules.DivisionMaxLen {
			return NormalizeSpace(c.value)
		}
	}
	return ""
}

// inferPlacements applies the placement rules to every cell. The last
// matching column of a category wins.
func (e *Extractor) inferPlacements(cells []cell) (model.Placements, bool, int) {
	var p model.Placements
	matched := false
	malformed := 0
	for _, c := range cells {
		if c.value == "" || c.role != roleNone {
			continue
		}
		rule, ok := e.rules.classify(c.label)
		if !ok {
			continue
		}
		if !isNumeric(c.value) {
			if rule.Marker {
				malformed++
			}
			continue
		}
		n, err := strconv.Atoi(c.value)
		if err != nil || n > e.rules.MaxCount {
			malformed++
			continue
		}
		set(&p, rule.Category, n)
		matched = true
	}
	return p, matched, malformed
}

func (e *Extractor) inferRankingPlacement(cells []cell) model.Placements {
	var p model.Placements
	v := firstByRole(cells, roleRanking)
	if v == "" {
		return p
	}
	set(&p, e.rules.ranking(v), 1)
	return p
}

func set(p *model.Placements, c Category, n int) {
	switch c {
	case CategoryFirst:
		p.First = n
	case CategorySecond:
		p.Second = n
	case CategoryThird:
		p.Third = n
	}
}

func firstByRole(cells []cell, r role) string {
	for _, c := range cells {
		if c.role == r && c.value != "" {
			return NormalizeSpace(c.value)
		}
	}
	return ""
}

// Identifier builds the stable record id: name and division joined by an
// underscore with every space replaced by an underscore.
func Identifier(name, division string) string {
	return strings.ReplaceAll(name+"_"+division, " ", "_")
}

// NormalizeSpace trims s and collapses runs of whitespace into one space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func normalizeLabel(l string) string {
	return strings.ToLower(NormalizeSpace(l))
}

// isNumeric reports whether s is a non-empty run of ASCII digits.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
