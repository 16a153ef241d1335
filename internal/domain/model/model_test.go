package model_test

import (
	"testing"

	model "github.com/okian/vbrank/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestRawRow(t *testing.T) {
	convey.Convey("Given a raw row built from label/value pairs", t, func() {
		row := model.NewRawRow("팀명", "서울 스파이커스", "부별", "남자클럽3부", "팀명", "중복")

		convey.Convey("Then lookups return the first matching value", func() {
			v, ok := row.Get("팀명")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v, convey.ShouldEqual, "서울 스파이커스")
		})

		convey.Convey("Then missing labels are reported without panicking", func() {
			v, ok := row.Get("없는열")
			convey.So(ok, convey.ShouldBeFalse)
			convey.So(v, convey.ShouldEqual, "")
		})

		convey.Convey("Then iteration follows column order", func() {
			var labels []string
			row.Each(func(label, _ string) { labels = append(labels, label) })
			convey.So(labels, convey.ShouldResemble, []string{"팀명", "부별", "팀명"})
			convey.So(row.Len(), convey.ShouldEqual, 3)
		})

		convey.Convey("Then a row with values is not empty", func() {
			convey.So(row.Empty(), convey.ShouldBeFalse)
			convey.So(model.NewRawRow("a", " ", "b", "").Empty(), convey.ShouldBeTrue)
		})
	})
}

func TestPlacements(t *testing.T) {
	convey.Convey("Given two placement counts", t, func() {
		a := model.Placements{First: 1, Second: 2, Third: 3}
		b := model.Placements{First: 4, Second: 0, Third: 1}

		convey.Convey("Then Add sums each category", func() {
			convey.So(a.Add(b), convey.ShouldResemble, model.Placements{First: 5, Second: 2, Third: 4})
		})

		convey.Convey("Then Medals counts every podium finish", func() {
			convey.So(a.Medals(), convey.ShouldEqual, 6)
			convey.So(model.Placements{}.IsZero(), convey.ShouldBeTrue)
			convey.So(b.IsZero(), convey.ShouldBeFalse)
		})
	})
}
