package pairing_test

import (
	"testing"

	"github.com/okian/decant/internal/domain/food"
	"github.com/okian/decant/internal/domain/pairing"
	"github.com/okian/decant/internal/domain/profile"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScore(t *testing.T) {
	Convey("Given the pairing rule table", t, func() {
		Convey("When nothing in the meal triggers a rule", func() {
			p := profile.Profile{Body: 3, Tannin: 2, Acidity: 3}
			fc := food.Context{Primary: food.PrimaryPoultry}
			res := pairing.Score(p, fc)

			Convey("Then the score stays at the 50-point baseline", func() {
				So(res.Score, ShouldEqual, 50.0)
				So(res.Explanation, ShouldNotBeEmpty)
			})
		})

		Convey("When pairing against a high-fat beef dish", func() {
			fc := food.Context{Primary: food.PrimaryBeef, Fat: food.LevelHigh}

			Convey("Then tannin and body are rewarded", func() {
				p := profile.Profile{Body: 4, Tannin: 5}
				res := pairing.Score(p, fc)
				// 50 + 3*5 + 2*4 = 73
				So(res.Score, ShouldEqual, 73.0)
			})

			Convey("And a tannic red beats a soft one", func() {
				tannic := pairing.Score(profile.Profile{Body: 4, Tannin: 5}, fc)
				soft := pairing.Score(profile.Profile{Body: 4, Tannin: 1}, fc)
				So(tannic.Score, ShouldBeGreaterThan, soft.Score)
			})

			Convey("And medium fat applies half the delta", func() {
				p := profile.Profile{Body: 4, Tannin: 4}
				high := pairing.Score(p, food.Context{Fat: food.LevelHigh})
				medium := pairing.Score(p, food.Context{Fat: food.LevelMedium})
				// high: 50+12+8 = 70, medium: 50+6+4 = 60
				So(high.Score, ShouldEqual, 70.0)
				So(medium.Score, ShouldEqual, 60.0)
			})
		})

		Convey("When pairing against a tomato-based sauce", func() {
			fc := food.Context{Sauce: food.SauceTomato}

			Convey("Then acidity at or above 3 is rewarded", func() {
				res := pairing.Score(profile.Profile{Acidity: 4}, fc)
				// 50 + 3*4 = 62
				So(res.Score, ShouldEqual, 62.0)
			})

			Convey("And low acidity clashes", func() {
				res := pairing.Score(profile.Profile{Acidity: 2}, fc)
				// 50 - 8 = 42
				So(res.Score, ShouldEqual, 42.0)
				So(res.Explanation, ShouldContainSubstring, "too low")
			})
		})

		Convey("When pairing against a hot dish", func() {
			fc := food.Context{Spice: food.LevelHigh}

			Convey("Then tannin and alcohol are penalized", func() {
				res := pairing.Score(profile.Profile{Tannin: 4, ABV: 14.5}, fc)
				// 50 - 2*4 - 2*(14.5-12) = 37
				So(res.Score, ShouldEqual, 37.0)
			})

			Convey("And sweetness soothes the heat", func() {
				dry := pairing.Score(profile.Profile{Tannin: 1}, fc)
				sweet := pairing.Score(profile.Profile{Tannin: 1, Sweetness: 4}, fc)
				// sweetness adds 3*4 = 12
				So(sweet.Score-dry.Score, ShouldEqual, 12.0)
			})

			Convey("And modest alcohol carries no burn penalty", func() {
				res := pairing.Score(profile.Profile{ABV: 11.5}, fc)
				So(res.Score, ShouldEqual, 50.0)
			})
		})

		Convey("When pairing against a smoky dish", func() {
			res := pairing.Score(profile.Profile{Oak: 3}, food.Context{Smoke: food.LevelHigh})

			Convey("Then oak echoes the smoke", func() {
				// 50 + 3*3 = 59
				So(res.Score, ShouldEqual, 59.0)
			})
		})

		Convey("When pairing heavy structure against delicate mains", func() {
			fc := food.Context{Primary: food.PrimaryFish}

			Convey("Then strong tannin and body are penalized", func() {
				res := pairing.Score(profile.Profile{Body: 5, Tannin: 5}, fc)
				// 50 - 4*(5-3) - 3*(5-3) = 36
				So(res.Score, ShouldEqual, 36.0)
			})

			Convey("And gentle structure is untouched", func() {
				res := pairing.Score(profile.Profile{Body: 3, Tannin: 3}, fc)
				So(res.Score, ShouldEqual, 50.0)
			})

			Convey("And vegetarian mains behave the same", func() {
				fish := pairing.Score(profile.Profile{Tannin: 5}, fc)
				veg := pairing.Score(profile.Profile{Tannin: 5}, food.Context{Primary: food.PrimaryVegetarian})
				So(veg.Score, ShouldEqual, fish.Score)
			})
		})

		Convey("When many rules stack in one direction", func() {
			p := profile.Profile{Body: 5, Tannin: 5, Acidity: 5, Oak: 5}
			fc := food.Context{
				Primary: food.PrimaryBeef,
				Fat:     food.LevelHigh,
				Sauce:   food.SauceTomato,
				Smoke:   food.LevelHigh,
			}
			res := pairing.Score(p, fc)

			Convey("Then the score clamps at 100", func() {
				// 50 + 15 + 10 + 15 + 15 = 105 before the clamp
				So(res.Score, ShouldEqual, 100.0)
			})
		})

		Convey("When every penalty stacks against a light profile", func() {
			p := profile.Profile{Tannin: 5, ABV: 16.0}
			fc := food.Context{
				Primary: food.PrimaryFish,
				Spice:   food.LevelHigh,
				Sauce:   food.SauceTomato,
			}
			res := pairing.Score(p, fc)

			Convey("Then the score stays within 0-100", func() {
				So(res.Score, ShouldBeBetweenOrEqual, 0.0, 100.0)
			})
		})

		Convey("Then the explanation cites the largest contributions", func() {
			p := profile.Profile{Body: 2, Tannin: 5, Oak: 1}
			fc := food.Context{Fat: food.LevelHigh, Smoke: food.LevelHigh}
			res := pairing.Score(p, fc)

			// tannin delta 15 dominates body 4 and oak 3
			So(res.Explanation, ShouldContainSubstring, "tannin 5")
		})

		Convey("Then identical inputs always produce identical results", func() {
			p := profile.Profile{Body: 4, Tannin: 3, Acidity: 3, Oak: 2, ABV: 13.5}
			fc := food.Context{Primary: food.PrimaryLamb, Fat: food.LevelHigh, Spice: food.LevelMedium}
			first := pairing.Score(p, fc)
			for i := 0; i < 20; i++ {
				So(pairing.Score(p, fc), ShouldResemble, first)
			}
		})
	})
}
