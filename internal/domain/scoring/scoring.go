// Package scoring ranks draft entries against reported picks.
package scoring

import (
	"sort"

	"github.com/clparker78/straight-razor-draft/internal/domain/model"
)

// SlotPoints returns what a guess in slot pos earns when the player actually
// went at pick actual: 32 for an exact hit, one point less per slot of error,
// never below zero.
func SlotPoints(pos, actual int) int {
	diff := pos - actual
	if diff < 0 {
		diff = -diff
	}
	if diff == 0 {
		return model.FirstRound
	}
	return max(0, model.FirstRound-diff)
}

// Score computes one row per entry and returns them ranked by score, then
// correct count, keeping entry order for full ties.
//
// Guesses for players not drafted yet contribute nothing and leave the streak
// alone. A drafted player in the wrong slot breaks the streak. Slots past 32
// are ignored and missing slots count as unmatched.
func Score(entries []model.Entry, picks []model.Pick) model.Leaderboard {
	if len(entries) == 0 {
		return model.Leaderboard{}
	}

	actual := make(map[string]int, len(picks))
	for _, p := range picks {
		if _, ok := actual[p.Player]; !ok {
			actual[p.Player] = p.Number
		}
	}

	board := make(model.Leaderboard, 0, len(entries))
	for _, e := range entries {
		board = append(board, scoreEntry(e, actual))
	}

	sort.SliceStable(board, func(i, j int) bool {
		if board[i].Score != board[j].Score {
			return board[i].Score > board[j].Score
		}
		return board[i].Correct > board[j].Correct
	})
	return board
}

func scoreEntry(e model.Entry, actual map[string]int) model.Row {
	row := model.Row{Participant: e.Participant}

	slots := e.Predictions
	if len(slots) > model.FirstRound {
		slots = slots[:model.FirstRound]
	}

	for i, player := range slots {
		at, ok := actual[player]
		if !ok {
			continue
		}
		pos := i + 1
		row.Score += SlotPoints(pos, at)
		if pos != at {
			row.CurrentStreak = 0
			continue
		}
		row.Correct++
		row.CurrentStreak++
		row.MaxStreak = max(row.MaxStreak, row.CurrentStreak)
	}
	return row
}
