// Package sample provides built-in development records used when a run
// yields no usable data and the fallback is enabled.
package sample

import (
	"github.com/okian/vbrank/internal/domain/extract"
	"github.com/okian/vbrank/internal/domain/model"
	"github.com/okian/vbrank/internal/domain/region"
	"github.com/okian/vbrank/internal/domain/scoring"
)

// SourceLabel marks records that did not come from a real source.
const SourceLabel = "sample"

type team struct {
	name     string
	division string
	p        model.Placements
}

var teams = []team{ //nolint:gochecknoglobals // fixed sample data
	{"서울 스파이커스", "남자클럽3부", model.Placements{First: 5, Second: 3, Third: 2}},
	{"부산 네트워크", "남자클럽3부", model.Placements{First: 4, Second: 4, Third: 1}},
	{"광주 볼리볼", "남자클럽3부", model.Placements{First: 3, Second: 2, Third: 4}},
	{"대전 썬더", "남자클럽3부", model.Placements{First: 2, Second: 5, Third: 2}},
	{"인천 이글스", "남자클럽3부", model.Placements{First: 4, Second: 2, Third: 3}},
	{"서울 여자배구", "여자클럽3부", model.Placements{First: 6, Second: 2, Third: 1}},
	{"부산 레이디스", "여자클럽3부", model.Placements{First: 3, Second: 4, Third: 2}},
	{"광주 퀸즈", "여자클럽3부", model.Placements{First: 2, Second: 3, Third: 5}},
	{"서울 장년클럽", "남자장년부", model.Placements{First: 3, Second: 2, Third: 1}},
	{"부산 시니어", "남자시니어부", model.Placements{First: 2, Second: 1, Third: 3}},
	{"대구 실버", "남자실버부", model.Placements{First: 1, Second: 3, Third: 2}},
	{"서울 연세대학교", "남자대학부", model.Placements{First: 4, Second: 1}},
	{"서울 이화여대", "여자대학부", model.Placements{First: 3, Second: 2, Third: 1}},
	{"강원 국제팀", "남자국제부", model.Placements{First: 2, Second: 2, Third: 1}},
	{"제주 여자국제", "여자국제부", model.Placements{First: 1, Second: 1, Third: 2}},
}

// Records returns a fresh copy of the sample records. Regions are resolved
// from the team names like extracted records.
func Records() []model.TeamRecord {
	out := make([]model.TeamRecord, 0, len(teams))
	for _, t := range teams {
		r := model.TeamRecord{
			ID:          extract.Identifier(t.name, t.division),
			Name:        t.name,
			Division:    t.division,
			Region:      region.FromName(t.name),
			Placements:  t.p,
			SourceLabel: SourceLabel,
		}
		scoring.Record(&r)
		out = append(out, r)
	}
	return out
}
