package model_test

import (
	"testing"
	"time"

	model "github.com/okian/decant/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseCategory(t *testing.T) {
	Convey("Given raw category strings", t, func() {
		Convey("When parsing known categories", func() {
			So(model.ParseCategory("red"), ShouldEqual, model.CategoryRed)
			So(model.ParseCategory("WHITE"), ShouldEqual, model.CategoryWhite)
			So(model.ParseCategory("  sparkling  "), ShouldEqual, model.CategorySparkling)
			So(model.ParseCategory("Fortified"), ShouldEqual, model.CategoryFortified)
		})

		Convey("When parsing unknown categories", func() {
			Convey("Then they should default to red", func() {
				So(model.ParseCategory("orange"), ShouldEqual, model.CategoryRed)
				So(model.ParseCategory(""), ShouldEqual, model.CategoryRed)
			})
		})
	})
}

func TestCategoryStructured(t *testing.T) {
	Convey("Given the category classes", t, func() {
		Convey("Then red, dessert and fortified should be structured", func() {
			So(model.CategoryRed.Structured(), ShouldBeTrue)
			So(model.CategoryDessert.Structured(), ShouldBeTrue)
			So(model.CategoryFortified.Structured(), ShouldBeTrue)
		})

		Convey("Then white, rose and sparkling should be light", func() {
			So(model.CategoryWhite.Structured(), ShouldBeFalse)
			So(model.CategoryRose.Structured(), ShouldBeFalse)
			So(model.CategorySparkling.Structured(), ShouldBeFalse)
		})
	})
}

func TestBottleFamilyKey(t *testing.T) {
	Convey("Given bottles that differ only in age", t, func() {
		older := model.Bottle{
			ID:        "b-1",
			Category:  model.CategoryRed,
			Region:    "Rioja",
			Varieties: []string{"Tempranillo"},
			Vintage:   2010,
		}
		younger := model.Bottle{
			ID:        "b-2",
			Category:  model.CategoryRed,
			Region:    "rioja",
			Varieties: []string{" tempranillo "},
			Vintage:   2020,
		}

		Convey("Then they should share a family key", func() {
			So(older.FamilyKey(), ShouldEqual, younger.FamilyKey())
			So(older.FamilyKey(), ShouldEqual, "red|rioja|tempranillo")
		})

		Convey("When the region differs", func() {
			other := older
			other.Region = "napa"

			Convey("Then the family key should differ", func() {
				So(other.FamilyKey(), ShouldNotEqual, older.FamilyKey())
			})
		})
	})
}

func TestBottleAgeYears(t *testing.T) {
	Convey("Given a bottle with a vintage", t, func() {
		b := model.Bottle{Vintage: 2015}

		Convey("Then age derives from the vintage", func() {
			age, known := b.AgeYears(2025)
			So(known, ShouldBeTrue)
			So(age, ShouldEqual, 10)
		})

		Convey("And the vintage wins over the purchase date", func() {
			b.PurchasedAt = time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
			age, known := b.AgeYears(2025)
			So(known, ShouldBeTrue)
			So(age, ShouldEqual, 10)
		})
	})

	Convey("Given a bottle with only a purchase date", t, func() {
		b := model.Bottle{PurchasedAt: time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)}

		Convey("Then age derives from the purchase year", func() {
			age, known := b.AgeYears(2025)
			So(known, ShouldBeTrue)
			So(age, ShouldEqual, 5)
		})
	})

	Convey("Given a bottle with neither vintage nor purchase date", t, func() {
		b := model.Bottle{}

		Convey("Then no age can be derived", func() {
			_, known := b.AgeYears(2025)
			So(known, ShouldBeFalse)
		})
	})

	Convey("Given a future vintage", t, func() {
		b := model.Bottle{Vintage: 2030}

		Convey("Then the age is negative but still known", func() {
			age, known := b.AgeYears(2025)
			So(known, ShouldBeTrue)
			So(age, ShouldEqual, -5)
		})
	})
}
