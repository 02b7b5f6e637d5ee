// Package model contains domain models passed between layers.
package model

// FirstRound is the number of picks (and guessed slots) the contest covers.
const FirstRound = 32

// MaxScore is the best possible total: every slot exact.
const MaxScore = FirstRound * FirstRound

// Pick is one reported draft selection.
type Pick struct {
	Number int    // 1..32
	Player string // drafted player
	Team   string // drafting team
}

// Entry is one participant's ordered guess of the first round.
// Predictions[i] is the guess for slot i+1.
type Entry struct {
	Participant string
	Predictions []string
}

// Row is a participant's standing after one scoring pass.
type Row struct {
	Participant   string
	Score         int
	Correct       int
	CurrentStreak int
	MaxStreak     int
}

// Leaderboard is a ranked sequence of rows, best first.
type Leaderboard []Row

// Clone returns a copy that shares no backing array with l.
func (l Leaderboard) Clone() Leaderboard {
	if l == nil {
		return nil
	}
	out := make(Leaderboard, len(l))
	copy(out, l)
	return out
}

// Ranks maps each participant to its 1-based position. When a name appears
// twice the better position wins.
func (l Leaderboard) Ranks() map[string]int {
	ranks := make(map[string]int, len(l))
	for i, r := range l {
		if _, ok := ranks[r.Participant]; !ok {
			ranks[r.Participant] = i + 1
		}
	}
	return ranks
}

// Leader returns the top participant, or "" for an empty board.
func (l Leaderboard) Leader() string {
	if len(l) == 0 {
		return ""
	}
	return l[0].Participant
}
