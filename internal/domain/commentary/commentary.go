// Package commentary narrates how the leaderboard moved between two refreshes.
package commentary

import (
	"fmt"

	"github.com/clparker78/straight-razor-draft/internal/domain/model"
)

const (
	// MaxLines caps the commentary for one refresh.
	MaxLines = 3
	// HotStreak is the current streak that earns a mention.
	HotStreak = 3
	// rankJump is the smallest rank change worth a line.
	rankJump = 2
)

// Placeholder is returned when there is nothing to rank yet.
const Placeholder = "The silence before the storm..."

// Filler is returned when nothing noteworthy happened.
const Filler = "All quiet on the draft front... for now."

// Kind labels a commentary line.
type Kind string

const (
	KindPlaceholder Kind = "placeholder"
	KindNewLeader   Kind = "new_leader"
	KindMovedUp     Kind = "moved_up"
	KindMovedDown   Kind = "moved_down"
	KindHotStreak   Kind = "hot_streak"
	KindFiller      Kind = "filler"
)

// Line is one piece of commentary.
type Line struct {
	Kind Kind
	Text string
}

// Comment compares previous against current and returns at most three lines.
func Comment(previous, current model.Leaderboard) []string {
	lines := Lines(previous, current)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

// Lines is Comment with each line's kind attached.
//
// Order: leader change, then rank jumps in current order, then hot streaks in
// current order. Truncation keeps that order.
func Lines(previous, current model.Leaderboard) []Line {
	if len(current) == 0 {
		return []Line{{Kind: KindPlaceholder, Text: Placeholder}}
	}

	prevRank := previous.Ranks()
	curRank := current.Ranks()

	var lines []Line

	if leader, before := current.Leader(), previous.Leader(); len(previous) == 0 || leader != before {
		lines = append(lines, Line{Kind: KindNewLeader, Text: newLeader(leader, before)})
	}

	seen := make(map[string]bool, len(current))
	for _, r := range current {
		if seen[r.Participant] {
			continue
		}
		seen[r.Participant] = true

		was, ok := prevRank[r.Participant]
		if !ok {
			continue
		}
		now := curRank[r.Participant]
		switch delta := was - now; {
		case delta >= rankJump:
			lines = append(lines, Line{Kind: KindMovedUp,
				Text: fmt.Sprintf("🚀 %s rockets up from #%d to #%d!", r.Participant, was, now)})
		case delta <= -rankJump:
			lines = append(lines, Line{Kind: KindMovedDown,
				Text: fmt.Sprintf("📉 %s drops from #%d to #%d, ouch.", r.Participant, was, now)})
		}
	}

	for _, r := range current {
		if r.CurrentStreak >= HotStreak {
			lines = append(lines, Line{Kind: KindHotStreak,
				Text: fmt.Sprintf("🔥 %s is on a heater with %d straight hits.", r.Participant, r.CurrentStreak)})
		}
	}

	if len(lines) == 0 {
		return []Line{{Kind: KindFiller, Text: Filler}}
	}
	if len(lines) > MaxLines {
		lines = lines[:MaxLines]
	}
	return lines
}

func newLeader(leader, before string) string {
	if before == "" {
		return fmt.Sprintf("👑 %s just took the top spot.", leader)
	}
	return fmt.Sprintf("👑 %s just took the top spot, %s is on notice.", leader, before)
}
