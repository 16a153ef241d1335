// Package output renders a ranking run as a JSON document.
package output

import (
	"time"

	"github.com/okian/vbrank/internal/domain/extract"
	"github.com/okian/vbrank/internal/domain/model"
)

// ScoringFormula is reported in every document.
const ScoringFormula = "firstPlace*3 + secondPlace*2 + thirdPlace*1"

// SourceReport describes what one source contributed to a run.
type SourceReport struct {
	Label    string        `json:"label"`
	Location string        `json:"location"`
	Records  int           `json:"records"`
	Tally    extract.Tally `json:"tally"`
	Error    string        `json:"error,omitempty"`
}

// Failed reports whether the source could not be fetched or parsed.
func (r SourceReport) Failed() bool { return r.Error != "" }

// Metadata describes how a document was produced.
type Metadata struct {
	RunID              string         `json:"runId"`
	GeneratedAt        time.Time      `json:"generatedAt"`
	RegionTableVersion string         `json:"regionTableVersion"`
	ScoringFormula     string         `json:"scoringFormula"`
	FallbackSample     bool           `json:"fallbackSample"`
	Sources            []SourceReport `json:"sources"`
	Totals             extract.Tally  `json:"totals"`
}

// Document is the full result of a run.
type Document struct {
	Metadata Metadata `json:"metadata"`
	model.Rankings
}
