package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/decant/internal/app"
	"github.com/okian/decant/internal/domain/food"
	"github.com/okian/decant/internal/domain/model"
	"github.com/okian/decant/internal/domain/profile"
	"github.com/okian/decant/internal/domain/types"
	"github.com/okian/decant/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// stubEstimator keeps background backfill from touching profiles the tests
// set by hand.
type stubEstimator struct{}

func (stubEstimator) Estimate(context.Context, model.Bottle) (profile.Profile, error) {
	return profile.Profile{}, errors.New("estimation service unavailable")
}

func newStartedService(t *testing.T) *service.Service {
	t.Helper()
	svc := service.New(
		service.WithWorkerCount(2),
		service.WithQueueSize(64),
		service.WithDedupeSize(128),
		service.WithShardCount(2),
		service.WithEstimator(stubEstimator{}),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestServiceNew(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should be constructed", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(50_000),
			service.WithDedupeSize(25_000),
			service.WithShardCount(2),
			service.WithPowerWeights(profile.Weights{Body: 0.4, Tannin: 0.2, Oak: 0.2, Strength: 0.2}),
			service.WithLineupTuning(40, 10, 4.5),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a configured service", t, func() {
		svc := service.New(
			service.WithWorkerCount(1),
			service.WithEstimator(stubEstimator{}),
		)

		Convey("When starting and stopping", func() {
			So(svc.Start(context.Background()), ShouldBeNil)

			Convey("Then a second start is a no-op", func() {
				So(svc.Start(context.Background()), ShouldBeNil)
				svc.Stop()
			})

			Convey("Then stopping twice is safe", func() {
				svc.Stop()
				svc.Stop()
			})
		})
	})
}

func TestServiceAddBottle(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := newStartedService(t)
		ctx := context.Background()

		Convey("When adding a bottle without an ID", func() {
			_, err := svc.AddBottle(ctx, model.Bottle{Name: "nameless"})

			Convey("Then it should be rejected", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, service.ErrMissingID), ShouldBeTrue)
			})
		})

		Convey("When adding a valid bottle", func() {
			b := model.Bottle{
				ID:       "b-1",
				Name:     "rioja reserva",
				Category: model.CategoryRed,
				Region:   "rioja",
				Vintage:  2018,
			}
			queued, err := svc.AddBottle(ctx, b)

			Convey("Then it is stored with an immediate heuristic profile", func() {
				So(err, ShouldBeNil)
				So(queued, ShouldBeTrue)

				rec, getErr := svc.Bottle(ctx, "b-1")
				So(getErr, ShouldBeNil)
				So(rec.Bottle.Name, ShouldEqual, "rioja reserva")
				So(rec.Profile.Source, ShouldEqual, profile.SourceHeuristic)
				So(rec.Profile.Power, ShouldBeBetweenOrEqual, profile.PowerMin, profile.PowerMax)
			})
		})

		Convey("When the category is free text", func() {
			_, err := svc.AddBottle(ctx, model.Bottle{ID: "b-2", Name: "mystery", Category: "orange"})
			So(err, ShouldBeNil)

			rec, getErr := svc.Bottle(ctx, "b-2")

			Convey("Then it normalizes onto the closed enum", func() {
				So(getErr, ShouldBeNil)
				So(rec.Bottle.Category, ShouldEqual, model.CategoryRed)
			})
		})
	})
}

func TestServiceDedupe(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := newStartedService(t)
		ctx := context.Background()

		Convey("When recording the same ID twice", func() {
			So(svc.SeenAndRecord(ctx, "b-1"), ShouldBeFalse)
			So(svc.SeenAndRecord(ctx, "b-1"), ShouldBeTrue)
			So(svc.Size(), ShouldEqual, 1)
		})

		Convey("When unrecording after a failed intake", func() {
			So(svc.SeenAndRecord(ctx, "b-2"), ShouldBeFalse)
			svc.Unrecord(ctx, "b-2")

			Convey("Then the ID can be retried", func() {
				So(svc.SeenAndRecord(ctx, "b-2"), ShouldBeFalse)
			})
		})
	})
}

func TestServiceReadiness(t *testing.T) {
	Convey("Given a started service holding a bottle", t, func() {
		svc := newStartedService(t)
		ctx := context.Background()
		asOf := time.Now().Year()

		b := model.Bottle{ID: "b-1", Name: "young barolo", Category: model.CategoryRed, Vintage: asOf - 1}
		_, err := svc.AddBottle(ctx, b)
		So(err, ShouldBeNil)

		// Pin a high-power profile so the window is the structured HIGH one
		ok, err := svc.SetProfile(ctx, "b-1", profile.Profile{Body: 5, Tannin: 5, Oak: 4, ABV: 14.5, Power: 8})
		So(err, ShouldBeNil)
		So(ok, ShouldBeTrue)

		Convey("When classifying a one-year-old high-power red", func() {
			r, err := svc.Readiness(ctx, "b-1", asOf)

			Convey("Then it should HOLD with concrete reasons", func() {
				So(err, ShouldBeNil)
				So(r.Status, ShouldEqual, types.StatusHold)
				So(len(r.Reasons), ShouldBeBetweenOrEqual, 3, 5)
			})
		})

		Convey("When classifying an unknown bottle", func() {
			_, err := svc.Readiness(ctx, "missing", asOf)

			Convey("Then it should return an error", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestServicePair(t *testing.T) {
	Convey("Given a started service holding a tannic red", t, func() {
		svc := newStartedService(t)
		ctx := context.Background()

		_, err := svc.AddBottle(ctx, model.Bottle{ID: "b-1", Name: "tannic red", Category: model.CategoryRed})
		So(err, ShouldBeNil)
		_, err = svc.SetProfile(ctx, "b-1", profile.Profile{Body: 4, Tannin: 5, ABV: 13.5, Power: 7})
		So(err, ShouldBeNil)

		Convey("When pairing against a high-fat beef dish", func() {
			res, err := svc.Pair(ctx, "b-1", food.Context{Primary: food.PrimaryBeef, Fat: food.LevelHigh})

			Convey("Then the score rises above baseline with an explanation", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldBeGreaterThan, 50.0)
				So(res.Explanation, ShouldNotBeEmpty)
			})
		})

		Convey("When pairing an unknown bottle", func() {
			_, err := svc.Pair(ctx, "missing", food.Context{})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestServiceBuildLineup(t *testing.T) {
	Convey("Given a started service with a small cellar", t, func() {
		svc := newStartedService(t)
		ctx := context.Background()
		asOf := time.Now().Year()

		powers := map[string]int{"a": 3, "b": 5, "c": 7, "d": 4}
		for id, power := range powers {
			_, err := svc.AddBottle(ctx, model.Bottle{ID: id, Name: "bottle " + id, Category: model.CategoryRed, Vintage: asOf - 6, Rating: 4.2})
			So(err, ShouldBeNil)
			_, err = svc.SetProfile(ctx, id, profile.Profile{Body: 3, Tannin: 2, ABV: 13.0, Power: power})
			So(err, ShouldBeNil)
		}

		Convey("When building over the whole cellar", func() {
			slots, err := svc.BuildLineup(ctx, nil, 3, nil, asOf)

			Convey("Then it returns an ordered lineup of the requested size", func() {
				So(err, ShouldBeNil)
				So(slots, ShouldHaveLength, 3)
				for i := 1; i < len(slots); i++ {
					So(slots[i].Power, ShouldBeGreaterThanOrEqualTo, slots[i-1].Power)
				}
			})
		})

		Convey("When some requested ids are unknown", func() {
			slots, err := svc.BuildLineup(ctx, []string{"a", "ghost", "c"}, 5, nil, asOf)

			Convey("Then unknown ids are skipped, not fatal", func() {
				So(err, ShouldBeNil)
				So(slots, ShouldHaveLength, 2)
			})
		})

		Convey("When the id list matches nothing", func() {
			slots, err := svc.BuildLineup(ctx, []string{"ghost"}, 3, nil, asOf)

			Convey("Then the lineup is empty", func() {
				So(err, ShouldBeNil)
				So(slots, ShouldBeEmpty)
			})
		})

		Convey("When a meal context is supplied", func() {
			fc := &food.Context{Primary: food.PrimaryBeef, Fat: food.LevelHigh}
			slots, err := svc.BuildLineup(ctx, nil, 2, fc, asOf)

			Convey("Then pairing scores ride along on the slots", func() {
				So(err, ShouldBeNil)
				So(slots, ShouldHaveLength, 2)
				for _, s := range slots {
					So(s.Pairing, ShouldBeGreaterThan, 0)
					So(s.Explanation, ShouldNotBeEmpty)
				}
			})
		})
	})
}

func TestServiceFamilyReport(t *testing.T) {
	Convey("Given a started service with one bottle family", t, func() {
		svc := newStartedService(t)
		ctx := context.Background()
		asOf := time.Now().Year()

		family := model.Bottle{Category: model.CategoryRed, Region: "rioja", Varieties: []string{"tempranillo"}}

		older := family
		older.ID = "older"
		older.Name = "older rioja"
		older.Vintage = asOf - 4

		younger := family
		younger.ID = "younger"
		younger.Name = "younger rioja"
		younger.Vintage = asOf - 3

		for _, b := range []model.Bottle{older, younger} {
			_, err := svc.AddBottle(ctx, b)
			So(err, ShouldBeNil)
		}

		Convey("When profiles keep classification monotone", func() {
			// Same power for both: the older one cannot invert
			for _, id := range []string{"older", "younger"} {
				_, err := svc.SetProfile(ctx, id, profile.Profile{Power: 4})
				So(err, ShouldBeNil)
			}

			violations, err := svc.FamilyReport(ctx, older.FamilyKey(), asOf)

			Convey("Then the report is clean", func() {
				So(err, ShouldBeNil)
				So(violations, ShouldBeEmpty)
			})
		})

		Convey("When divergent profiles invert the family", func() {
			// Older bottle gets a HIGH tier window (start 5y) so age 4 holds;
			// younger gets a LOW tier window (start 2y) so age 3 is ready.
			_, err := svc.SetProfile(ctx, "older", profile.Profile{Power: 8})
			So(err, ShouldBeNil)
			_, err = svc.SetProfile(ctx, "younger", profile.Profile{Power: 2})
			So(err, ShouldBeNil)

			violations, err := svc.FamilyReport(ctx, older.FamilyKey(), asOf)

			Convey("Then the inversion is reported advisorily", func() {
				So(err, ShouldBeNil)
				So(violations, ShouldHaveLength, 1)
				So(violations[0].OlderID, ShouldEqual, "older")
				So(violations[0].YoungerID, ShouldEqual, "younger")
			})

			Convey("And the classifications themselves stay untouched", func() {
				r, err := svc.Readiness(ctx, "older", asOf)
				So(err, ShouldBeNil)
				So(r.Status, ShouldEqual, types.StatusHold)
			})
		})
	})
}

func TestServiceGetStats(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := newStartedService(t)
		ctx := context.Background()

		_, err := svc.AddBottle(ctx, model.Bottle{ID: "b-1", Name: "bottle"})
		So(err, ShouldBeNil)

		Convey("When fetching stats", func() {
			stats := svc.GetStats()

			Convey("Then it reports the cellar state", func() {
				So(stats["started"], ShouldBeTrue)
				So(stats["totalBottles"], ShouldEqual, 1)
			})
		})
	})
}
