package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/clparker78/straight-razor-draft/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func boardOf(names ...string) model.Leaderboard {
	b := make(model.Leaderboard, len(names))
	for i, n := range names {
		b[i] = model.Row{Participant: n, Score: 100 - i}
	}
	return b
}

func TestSnapshotStore(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2025, 4, 24, 20, 0, 0, 0, time.UTC)

	Convey("Given an empty snapshot store", t, func() {
		store := NewSnapshotStore(ctx, WithClock(func() time.Time { return fixed }))

		Convey("Then reads should see nothing", func() {
			So(store.Count(ctx), ShouldEqual, 0)
			So(store.Current(ctx).Seq, ShouldEqual, 0)
			top, err := store.TopN(ctx, 10)
			So(err, ShouldBeNil)
			So(top, ShouldBeEmpty)
			_, err = store.Rank(ctx, "Sam")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("When a snapshot is published", func() {
			snap := store.Publish(ctx, Snapshot{
				Board: boardOf("Sam", "Ava", "Lee"),
				Picks: []model.Pick{{Number: 1, Player: "Caleb"}},
			})

			Convey("Then it should be stamped and current", func() {
				So(snap.Seq, ShouldEqual, 1)
				So(snap.At, ShouldEqual, fixed)
				So(snap.PicksBefore, ShouldEqual, 0)
				So(store.Current(ctx).Seq, ShouldEqual, 1)
				So(store.Count(ctx), ShouldEqual, 3)
			})

			Convey("Then ranks should be 1-based", func() {
				e, err := store.Rank(ctx, "Lee")
				So(err, ShouldBeNil)
				So(e.Rank, ShouldEqual, 3)
				So(e.Participant, ShouldEqual, "Lee")
				So(e.Score, ShouldEqual, 98)
			})

			Convey("Then TopN should cap at the board size", func() {
				top, err := store.TopN(ctx, 2)
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 2)
				So(top[1].Rank, ShouldEqual, 2)
				So(top[1].Participant, ShouldEqual, "Ava")

				all, err := store.TopN(ctx, 0)
				So(err, ShouldBeNil)
				So(len(all), ShouldEqual, 3)

				more, err := store.TopN(ctx, 50)
				So(err, ShouldBeNil)
				So(len(more), ShouldEqual, 3)
			})

			Convey("Then a negative limit should be rejected", func() {
				_, err := store.TopN(ctx, -1)
				So(errors.Is(err, ErrInvalidLimit), ShouldBeTrue)
			})

			Convey("And another snapshot replaces it", func() {
				second := store.Publish(ctx, Snapshot{
					Board: boardOf("Ava", "Sam"),
					Picks: []model.Pick{{Number: 1}, {Number: 2}},
				})

				Convey("Then it should remember how many picks the first held", func() {
					So(second.Seq, ShouldEqual, 2)
					So(second.PicksBefore, ShouldEqual, 1)
					So(store.Count(ctx), ShouldEqual, 2)
					So(store.Current(ctx).Board.Leader(), ShouldEqual, "Ava")
					_, err := store.Rank(ctx, "Lee")
					So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				})
			})
		})

		Convey("When the caller mutates a board after publishing", func() {
			board := boardOf("Sam")
			store.Publish(ctx, Snapshot{Board: board})
			board[0].Score = -1

			Convey("Then the stored snapshot should be unaffected", func() {
				e, _ := store.Rank(ctx, "Sam")
				So(e.Score, ShouldEqual, 100)
			})
		})

		Convey("When a name appears twice", func() {
			store.Publish(ctx, Snapshot{Board: boardOf("Sam", "Ava", "Sam")})

			Convey("Then Rank should report the better position", func() {
				e, err := store.Rank(ctx, "Sam")
				So(err, ShouldBeNil)
				So(e.Rank, ShouldEqual, 1)
			})
		})
	})
}

func TestSnapshotStore_ConcurrentReaders(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore(ctx)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				top, err := store.TopN(ctx, 0)
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				for i, e := range top {
					if e.Rank != i+1 {
						t.Errorf("rank %d at position %d", e.Rank, i)
						return
					}
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		names := make([]string, i%17)
		for j := range names {
			names[j] = fmt.Sprintf("p%d", j)
		}
		store.Publish(ctx, Snapshot{Board: boardOf(names...)})
	}
	close(stop)
	wg.Wait()

	if got := store.Current(ctx).Seq; got != 200 {
		t.Fatalf("expected seq 200, got %d", got)
	}
}
