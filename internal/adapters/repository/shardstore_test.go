package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	repository "github.com/okian/decant/internal/adapters/repository"
	"github.com/okian/decant/internal/domain/model"
	"github.com/okian/decant/internal/domain/profile"
	. "github.com/smartystreets/goconvey/convey"
)

func TestShardStore(t *testing.T) {
	Convey("Given a sharded cellar store", t, func() {
		ctx := context.Background()
		store := repository.NewShardStore(ctx, repository.WithShardCount(4))

		bottle := model.Bottle{
			ID:       "b-1",
			Name:     "test bottle",
			Category: model.CategoryRed,
			Region:   "rioja",
			AddedAt:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		prof := profile.Profile{Body: 4, Tannin: 3, Power: 6}

		Convey("When putting and getting a bottle", func() {
			err := store.Put(ctx, bottle, prof)
			So(err, ShouldBeNil)

			rec, err := store.Get(ctx, "b-1")

			Convey("Then the record should round-trip", func() {
				So(err, ShouldBeNil)
				So(rec.Bottle.ID, ShouldEqual, "b-1")
				So(rec.Profile.Power, ShouldEqual, 6)
			})
		})

		Convey("When getting an unknown bottle", func() {
			_, err := store.Get(ctx, "missing")

			Convey("Then it should return ErrNotFound", func() {
				So(err, ShouldEqual, repository.ErrNotFound)
			})
		})

		Convey("When replacing a profile", func() {
			So(store.Put(ctx, bottle, prof), ShouldBeNil)

			richer := prof
			richer.Power = 8
			richer.Source = profile.SourceEstimated

			ok, err := store.SetProfile(ctx, "b-1", richer)

			Convey("Then the stored profile should change", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)

				rec, getErr := store.Get(ctx, "b-1")
				So(getErr, ShouldBeNil)
				So(rec.Profile.Power, ShouldEqual, 8)
				So(rec.Profile.Source, ShouldEqual, profile.SourceEstimated)
			})

			Convey("And setting a profile for an unknown bottle reports false", func() {
				ok, err := store.SetProfile(ctx, "missing", richer)
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When listing the cellar", func() {
			base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
			for i := 0; i < 5; i++ {
				b := model.Bottle{
					ID:      fmt.Sprintf("b-%d", i),
					AddedAt: base.Add(time.Duration(5-i) * time.Hour),
				}
				So(store.Put(ctx, b, prof), ShouldBeNil)
			}

			records, err := store.List(ctx)

			Convey("Then records come back in (AddedAt, ID) order", func() {
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 5)
				for i := 1; i < len(records); i++ {
					So(records[i].Bottle.AddedAt.Before(records[i-1].Bottle.AddedAt), ShouldBeFalse)
				}
			})

			Convey("And repeated listings are identical", func() {
				again, err := store.List(ctx)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, records)
			})
		})

		Convey("When querying a family", func() {
			rioja := model.Bottle{ID: "r-1", Category: model.CategoryRed, Region: "rioja", Varieties: []string{"tempranillo"}}
			rioja2 := model.Bottle{ID: "r-2", Category: model.CategoryRed, Region: "rioja", Varieties: []string{"tempranillo"}}
			napa := model.Bottle{ID: "n-1", Category: model.CategoryRed, Region: "napa", Varieties: []string{"cabernet sauvignon"}}
			So(store.Put(ctx, rioja, prof), ShouldBeNil)
			So(store.Put(ctx, rioja2, prof), ShouldBeNil)
			So(store.Put(ctx, napa, prof), ShouldBeNil)

			records, err := store.Family(ctx, rioja.FamilyKey())

			Convey("Then only same-family bottles come back", func() {
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 2)
				for _, rec := range records {
					So(rec.Bottle.Region, ShouldEqual, "rioja")
				}
			})
		})

		Convey("When writing concurrently across shards", func() {
			const writers = 8
			const perWriter = 50

			var wg sync.WaitGroup
			for w := 0; w < writers; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					for i := 0; i < perWriter; i++ {
						b := model.Bottle{ID: fmt.Sprintf("w%d-b%d", w, i)}
						_ = store.Put(ctx, b, prof)
					}
				}(w)
			}
			wg.Wait()

			Convey("Then every write lands", func() {
				So(store.Count(ctx), ShouldEqual, writers*perWriter)
			})
		})
	})
}
