package lineup_test

import (
	"testing"

	"github.com/okian/decant/internal/domain/food"
	"github.com/okian/decant/internal/domain/lineup"
	"github.com/okian/decant/internal/domain/model"
	"github.com/okian/decant/internal/domain/profile"
	"github.com/okian/decant/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// candidate builds a READY pool entry with the interesting knobs exposed.
func candidate(id string, power, tannin int, rating float64) lineup.Candidate {
	return lineup.Candidate{
		Bottle:  model.Bottle{ID: id, Name: "bottle " + id, Rating: rating},
		Profile: profile.Profile{Power: power, Tannin: tannin},
		Readiness: types.Readiness{
			Status:  types.StatusReady,
			Reasons: []string{"inside its drink window"},
		},
	}
}

func hold(id string, power int) lineup.Candidate {
	c := candidate(id, power, 1, 3.0)
	c.Readiness.Status = types.StatusHold
	return c
}

func TestBuild(t *testing.T) {
	Convey("Given a lineup builder with default weights", t, func() {
		b := lineup.NewBuilder()

		Convey("When the pool is empty", func() {
			slots := b.Build(nil, 3, nil)

			Convey("Then the lineup is empty, not an error", func() {
				So(slots, ShouldBeEmpty)
				So(slots, ShouldNotBeNil)
			})
		})

		Convey("When the desired count is not positive", func() {
			pool := []lineup.Candidate{candidate("a", 3, 1, 3.5)}

			Convey("Then the lineup is empty", func() {
				So(b.Build(pool, 0, nil), ShouldBeEmpty)
				So(b.Build(pool, -1, nil), ShouldBeEmpty)
			})
		})

		Convey("When the pool is smaller than the desired count", func() {
			pool := []lineup.Candidate{
				candidate("a", 3, 1, 3.5),
				candidate("b", 5, 2, 3.5),
			}
			slots := b.Build(pool, 6, nil)

			Convey("Then every eligible bottle is used", func() {
				So(slots, ShouldHaveLength, 2)
			})
		})

		Convey("When five eligible bottles compete for three slots", func() {
			pool := []lineup.Candidate{
				candidate("a", 3, 1, 4.5),
				candidate("b", 5, 2, 4.5),
				candidate("c", 7, 2, 4.5),
				candidate("d", 4, 1, 3.0),
				candidate("e", 6, 2, 3.0),
			}
			slots := b.Build(pool, 3, nil)

			Convey("Then exactly three slots come back", func() {
				So(slots, ShouldHaveLength, 3)
			})

			Convey("Then the highly rated bottles win the selection", func() {
				ids := []string{slots[0].BottleID, slots[1].BottleID, slots[2].BottleID}
				So(ids, ShouldContain, "a")
				So(ids, ShouldContain, "b")
				So(ids, ShouldContain, "c")
			})

			Convey("Then the sequence runs light to bold", func() {
				So(slots[0].Power, ShouldEqual, 3)
				So(slots[1].Power, ShouldEqual, 5)
				So(slots[2].Power, ShouldEqual, 7)
			})

			Convey("Then positions and labels follow the progression", func() {
				So(slots[0].Position, ShouldEqual, 1)
				So(slots[0].Label, ShouldEqual, "Opening")
				So(slots[1].Label, ShouldEqual, "Main")
				So(slots[2].Label, ShouldEqual, "Closing")
			})

			Convey("Then every slot carries an explanation", func() {
				for _, s := range slots {
					So(s.Explanation, ShouldNotBeEmpty)
				}
			})
		})

		Convey("When two high-tannin bottles would sit side by side", func() {
			pool := []lineup.Candidate{
				candidate("a", 3, 4, 4.5),
				candidate("b", 4, 5, 4.5),
				candidate("c", 6, 1, 4.5),
			}
			slots := b.Build(pool, 3, nil)
			tanninByID := map[string]int{"a": 4, "b": 5, "c": 1}

			Convey("Then the smoothing pass separates them", func() {
				So(slots, ShouldHaveLength, 3)
				for i := 1; i < len(slots); i++ {
					prev := tanninByID[slots[i-1].BottleID]
					cur := tanninByID[slots[i].BottleID]
					So(prev >= 4 && cur >= 4, ShouldBeFalse)
				}
			})
		})

		Convey("When some of the pool is on HOLD", func() {
			pool := []lineup.Candidate{
				hold("h1", 8),
				candidate("a", 3, 1, 3.5),
				hold("h2", 9),
				candidate("b", 5, 2, 3.5),
				candidate("c", 6, 2, 3.5),
			}
			slots := b.Build(pool, 5, nil)

			Convey("Then HOLD bottles are excluded and the lineup shrinks", func() {
				So(slots, ShouldHaveLength, 3)
				for _, s := range slots {
					So(s.BottleID, ShouldNotEqual, "h1")
					So(s.BottleID, ShouldNotEqual, "h2")
				}
			})
		})

		Convey("When every bottle in the pool is on HOLD", func() {
			pool := []lineup.Candidate{hold("h1", 4), hold("h2", 6)}
			slots := b.Build(pool, 2, nil)

			Convey("Then the builder fails open and uses the full pool", func() {
				So(slots, ShouldHaveLength, 2)
			})
		})

		Convey("When only one bottle makes the lineup", func() {
			slots := b.Build([]lineup.Candidate{candidate("solo", 5, 2, 4.0)}, 1, nil)

			Convey("Then it is labeled Main", func() {
				So(slots, ShouldHaveLength, 1)
				So(slots[0].Label, ShouldEqual, "Main")
			})
		})

		Convey("When a meal context drives the selection", func() {
			tannic := candidate("tannic", 7, 5, 3.0)
			tannic.Profile.Body = 4
			soft := candidate("soft", 3, 1, 3.0)
			fc := &food.Context{Primary: food.PrimaryBeef, Fat: food.LevelHigh}

			slots := b.Build([]lineup.Candidate{soft, tannic}, 1, fc)

			Convey("Then the better pairing wins the single slot", func() {
				So(slots, ShouldHaveLength, 1)
				So(slots[0].BottleID, ShouldEqual, "tannic")
				So(slots[0].Pairing, ShouldBeGreaterThan, 50.0)
				So(slots[0].Explanation, ShouldNotBeEmpty)
			})
		})

		Convey("Then identical inputs always yield the identical lineup", func() {
			pool := []lineup.Candidate{
				candidate("a", 3, 2, 4.1),
				candidate("b", 5, 3, 4.1),
				candidate("c", 7, 4, 3.2),
				candidate("d", 4, 1, 4.8),
			}
			first := b.Build(pool, 3, nil)
			for i := 0; i < 10; i++ {
				So(b.Build(pool, 3, nil), ShouldResemble, first)
			}
		})
	})

	Convey("Given a builder with custom tuning", t, func() {
		b := lineup.NewBuilder(
			lineup.WithReadinessWeight(100),
			lineup.WithRatingBonus(0, 4.5),
		)

		Convey("When readiness dominates and ratings carry no bonus", func() {
			ready := candidate("ready", 5, 2, 2.0)
			held := hold("held", 5)
			held.Bottle.Rating = 5.0

			slots := b.Build([]lineup.Candidate{held, ready}, 1, nil)

			Convey("Then the READY bottle wins regardless of rating", func() {
				So(slots, ShouldHaveLength, 1)
				So(slots[0].BottleID, ShouldEqual, "ready")
			})
		})
	})
}
