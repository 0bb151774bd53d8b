package profile_test

import (
	"testing"
	"time"

	"github.com/okian/decant/internal/domain/model"
	"github.com/okian/decant/internal/domain/profile"
	"github.com/okian/decant/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestHeuristic(t *testing.T) {
	Convey("Given the heuristic profiler", t, func() {
		w := profile.DefaultWeights()
		now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

		Convey("When nothing in the metadata is recognized", func() {
			p := profile.Heuristic(model.CategoryWhite, "somewhere", []string{"melon"}, w, now)

			Convey("Then it should return the category defaults at LOW confidence", func() {
				So(p.Body, ShouldEqual, 2)
				So(p.Tannin, ShouldEqual, 0)
				So(p.Acidity, ShouldEqual, 4)
				So(p.Confidence, ShouldEqual, types.ConfidenceLow)
				So(p.Source, ShouldEqual, profile.SourceHeuristic)
			})
		})

		Convey("When the variety signals high tannin", func() {
			p := profile.Heuristic(model.CategoryRed, "rioja", []string{"cabernet sauvignon"}, w, now)

			Convey("Then tannin and oak bump one step and confidence rises", func() {
				So(p.Tannin, ShouldEqual, 4) // red default 3 + cabernet
				So(p.Oak, ShouldEqual, 3)    // red default 2 + rioja
				So(p.Confidence, ShouldEqual, types.ConfidenceMedium)
			})
		})

		Convey("When a bold region is recognized", func() {
			plain := profile.Heuristic(model.CategoryRed, "somewhere", nil, w, now)
			bold := profile.Heuristic(model.CategoryRed, "barossa", nil, w, now)

			Convey("Then body and tannin bump and power follows", func() {
				So(bold.Body, ShouldEqual, plain.Body+1)
				So(bold.Tannin, ShouldEqual, plain.Tannin+1)
				So(bold.Power, ShouldBeGreaterThanOrEqualTo, plain.Power)
			})
		})

		Convey("When bumps would exceed the ordinal ceiling", func() {
			p := profile.Heuristic(model.CategoryFortified, "napa", []string{"tannat"}, w, now)

			Convey("Then dimensions stay capped at 5", func() {
				So(p.Body, ShouldEqual, 5)
				So(p.Tannin, ShouldBeLessThanOrEqualTo, 5)
			})
		})

		Convey("Then the heuristic never fails and always yields a valid power", func() {
			for _, cat := range []model.Category{
				model.CategoryRed, model.CategoryWhite, model.CategoryRose,
				model.CategorySparkling, model.CategoryDessert, model.CategoryFortified,
			} {
				p := profile.Heuristic(cat, "", nil, w, now)
				So(p.Power, ShouldBeBetweenOrEqual, profile.PowerMin, profile.PowerMax)
			}
		})

		Convey("Then identical metadata always yields identical profiles", func() {
			a := profile.Heuristic(model.CategoryRed, "bordeaux", []string{"merlot"}, w, now)
			b := profile.Heuristic(model.CategoryRed, "bordeaux", []string{"merlot"}, w, now)
			So(a, ShouldResemble, b)
		})
	})
}
