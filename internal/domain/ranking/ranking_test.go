package ranking_test

import (
	"testing"

	"github.com/scorepeon/ladder/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFromScores(t *testing.T) {
	Convey("Given raw scores for three players", t, func() {
		points := []int{70, 68, 72}

		Convey("When the game is golf style", func() {
			ranks := ranking.FromScores(points, true)

			Convey("Then the lowest score ranks best", func() {
				So(ranks, ShouldResemble, []int{1, 0, 2})
			})
		})

		Convey("When the game is not golf style", func() {
			ranks := ranking.FromScores(points, false)

			Convey("Then the highest score ranks best", func() {
				So(ranks, ShouldResemble, []int{1, 2, 0})
			})
		})
	})

	Convey("Given tied scores", t, func() {
		Convey("When two players share a score", func() {
			ranks := ranking.FromScores([]int{10, 10, 5}, true)

			Convey("Then they share a rank", func() {
				So(ranks, ShouldResemble, []int{1, 1, 0})
			})
		})

		Convey("When every player shares a score", func() {
			ranks := ranking.FromScores([]int{7, 7, 7}, false)

			Convey("Then every rank is zero", func() {
				So(ranks, ShouldResemble, []int{0, 0, 0})
			})
		})
	})

	Convey("Given an empty score list", t, func() {
		Convey("Then the rank list is empty", func() {
			So(ranking.FromScores(nil, true), ShouldBeEmpty)
		})
	})
}
