package source_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/clparker78/straight-razor-draft/internal/adapters/source"
	"github.com/clparker78/straight-razor-draft/internal/domain/dedupe"
	"github.com/clparker78/straight-razor-draft/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManualResults(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty manual ledger", t, func() {
		seen := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(64))
		ledger := source.NewManualResults(seen)

		Convey("When picks arrive out of order", func() {
			So(ledger.Submit(ctx, model.Pick{Number: 2, Player: " Jayden ", Team: "Commanders"}), ShouldBeNil)
			So(ledger.Submit(ctx, model.Pick{Number: 1, Player: "Caleb", Team: "Bears"}), ShouldBeNil)

			Convey("Then Load should return them by pick number, trimmed", func() {
				picks, err := ledger.Load(ctx)
				So(err, ShouldBeNil)
				So(len(picks), ShouldEqual, 2)
				So(picks[0].Player, ShouldEqual, "Caleb")
				So(picks[1].Player, ShouldEqual, "Jayden")
				So(ledger.Len(), ShouldEqual, 2)
			})
		})

		Convey("When the same pick is submitted twice", func() {
			So(ledger.Submit(ctx, model.Pick{Number: 1, Player: "Caleb"}), ShouldBeNil)
			err := ledger.Submit(ctx, model.Pick{Number: 1, Player: " Caleb"})

			Convey("Then the second submission should be a duplicate", func() {
				So(errors.Is(err, source.ErrDuplicatePick), ShouldBeTrue)
				So(seen.Size(), ShouldEqual, 1)
			})
		})

		Convey("When another player is submitted at a filled pick number", func() {
			So(ledger.Submit(ctx, model.Pick{Number: 1, Player: "Caleb"}), ShouldBeNil)
			err := ledger.Submit(ctx, model.Pick{Number: 1, Player: "Someone Else"})

			Convey("Then it should conflict and keep the recorded pick", func() {
				So(errors.Is(err, source.ErrPickTaken), ShouldBeTrue)
				So(errors.Is(err, source.ErrDuplicatePick), ShouldBeFalse)
				picks, _ := ledger.Load(ctx)
				So(picks[0].Player, ShouldEqual, "Caleb")
				So(seen.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a drafted player is submitted at another pick", func() {
			So(ledger.Submit(ctx, model.Pick{Number: 1, Player: "Caleb"}), ShouldBeNil)
			err := ledger.Submit(ctx, model.Pick{Number: 2, Player: "Caleb"})

			Convey("Then it should be refused and the pick number stay free", func() {
				So(errors.Is(err, source.ErrPlayerTaken), ShouldBeTrue)
				So(ledger.Submit(ctx, model.Pick{Number: 2, Player: "Jayden"}), ShouldBeNil)
			})
		})

		Convey("When a pick is invalid", func() {
			Convey("Then out-of-range numbers and blank players should be rejected", func() {
				So(errors.Is(ledger.Submit(ctx, model.Pick{Number: 0, Player: "A"}), source.ErrInvalidPick), ShouldBeTrue)
				So(errors.Is(ledger.Submit(ctx, model.Pick{Number: 33, Player: "A"}), source.ErrInvalidPick), ShouldBeTrue)
				So(errors.Is(ledger.Submit(ctx, model.Pick{Number: 5, Player: "  "}), source.ErrInvalidPick), ShouldBeTrue)
				So(ledger.Len(), ShouldEqual, 0)
			})
		})

		Convey("When a pick is removed", func() {
			So(ledger.Submit(ctx, model.Pick{Number: 7, Player: "Typo"}), ShouldBeNil)
			removed, err := ledger.Remove(ctx, 7)

			Convey("Then it can be entered again", func() {
				So(err, ShouldBeNil)
				So(removed.Player, ShouldEqual, "Typo")
				So(seen.Size(), ShouldEqual, 0)
				So(ledger.Submit(ctx, model.Pick{Number: 7, Player: "Fixed"}), ShouldBeNil)
				So(errors.Is(ledger.Submit(ctx, model.Pick{Number: 7, Player: "Typo"}), source.ErrPickTaken), ShouldBeTrue)
			})

			Convey("Then removing it again should fail", func() {
				_, err := ledger.Remove(ctx, 7)
				So(errors.Is(err, source.ErrPickNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given a ledger without an explicit deduper", t, func() {
		ledger := source.NewManualResults(nil)

		Convey("Then it should still enforce one record per pick", func() {
			So(ledger.Submit(ctx, model.Pick{Number: 1, Player: "A"}), ShouldBeNil)
			So(errors.Is(ledger.Submit(ctx, model.Pick{Number: 1, Player: "A"}), source.ErrDuplicatePick), ShouldBeTrue)
		})

		Convey("Then every pick of a full round should stay recognized", func() {
			for n := 1; n <= model.FirstRound; n++ {
				So(ledger.Submit(ctx, model.Pick{Number: n, Player: fmt.Sprintf("p%d", n)}), ShouldBeNil)
			}
			for n := 1; n <= model.FirstRound; n++ {
				err := ledger.Submit(ctx, model.Pick{Number: n, Player: fmt.Sprintf("p%d", n)})
				So(errors.Is(err, source.ErrDuplicatePick), ShouldBeTrue)
			}
		})
	})

	Convey("Given a ledger whose deduper remembers nothing", t, func() {
		ledger := source.NewManualResults(forgetful{})
		So(ledger.Submit(ctx, model.Pick{Number: 1, Player: "Caleb"}), ShouldBeNil)

		Convey("Then an identical resubmission is no longer a duplicate", func() {
			err := ledger.Submit(ctx, model.Pick{Number: 1, Player: "Caleb"})
			So(errors.Is(err, source.ErrDuplicatePick), ShouldBeFalse)
			So(errors.Is(err, source.ErrPickTaken), ShouldBeTrue)
		})
	})
}

// forgetful is a Deduper that never reports a key as seen.
type forgetful struct{}

func (forgetful) SeenAndRecord(context.Context, string) bool { return false }
func (forgetful) Unrecord(context.Context, string)           {}
func (forgetful) Size() int64                                { return 0 }
