package model_test

import (
	"testing"

	model "github.com/clparker78/straight-razor-draft/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestLeaderboard(t *testing.T) {
	convey.Convey("Given a leaderboard", t, func() {
		board := model.Leaderboard{
			{Participant: "Sam", Score: 61, Correct: 1},
			{Participant: "Ava", Score: 40},
			{Participant: "Sam", Score: 12},
		}

		convey.Convey("When building rank maps", func() {
			ranks := board.Ranks()

			convey.Convey("Then ranks should be 1-based and keep the first occurrence", func() {
				convey.So(ranks["Sam"], convey.ShouldEqual, 1)
				convey.So(ranks["Ava"], convey.ShouldEqual, 2)
				convey.So(len(ranks), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When cloning", func() {
			clone := board.Clone()
			clone[0].Score = 0

			convey.Convey("Then the original should be untouched", func() {
				convey.So(board[0].Score, convey.ShouldEqual, 61)
				convey.So(len(clone), convey.ShouldEqual, len(board))
			})
		})

		convey.Convey("When asking for the leader", func() {
			convey.Convey("Then it should be the first row", func() {
				convey.So(board.Leader(), convey.ShouldEqual, "Sam")
			})
		})
	})

	convey.Convey("Given an empty leaderboard", t, func() {
		var board model.Leaderboard

		convey.Convey("Then it should have no leader and no ranks", func() {
			convey.So(board.Leader(), convey.ShouldEqual, "")
			convey.So(board.Ranks(), convey.ShouldBeEmpty)
			convey.So(board.Clone(), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given the contest constants", t, func() {
		convey.Convey("Then the maximum score should be 32 x 32", func() {
			convey.So(model.MaxScore, convey.ShouldEqual, 1024)
		})
	})
}
