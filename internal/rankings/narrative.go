package rankings

import (
	"strings"

	"github.com/stuckabuc/huddlebot/internal/models"
)

// Stars buckets a 1..N rank into a 1-5 rating by 20% percentile bands
// against league size: top fifth earns 5 stars, bottom fifth earns 1.
func Stars(rank, leagueSize int) int {
	if leagueSize <= 0 || rank <= 0 {
		return 3
	}
	frac := float64(rank) / float64(leagueSize)
	switch {
	case frac <= 0.2:
		return 5
	case frac <= 0.4:
		return 4
	case frac <= 0.6:
		return 3
	case frac <= 0.8:
		return 2
	default:
		return 1
	}
}

const neutralNarrative = "A steady middle-of-the-pack team right now."

// Summarize derives a short explanation from the entry's component ranks.
// Each signal contributes a clause when it rates 4+ stars or 2 or fewer;
// with nothing notable the neutral fallback is used.
func Summarize(e models.PowerRankEntry, leagueSize int) string {
	var clauses []string

	switch stars := Stars(e.StrengthRank, leagueSize); {
	case stars >= 4:
		clauses = append(clauses, "Loaded roster from top to bottom.")
	case stars <= 2:
		clauses = append(clauses, "Thin roster that needs reinforcements.")
	}

	switch stars := Stars(e.StandingsRank, leagueSize); {
	case stars >= 4:
		clauses = append(clauses, "The record backs it up.")
	case stars <= 2:
		clauses = append(clauses, "The record is dragging them down.")
	}

	switch stars := Stars(e.RollingRank, leagueSize); {
	case stars >= 4:
		clauses = append(clauses, "Red hot over the last few weeks.")
	case stars <= 2:
		clauses = append(clauses, "Trending the wrong way lately.")
	}

	if len(clauses) == 0 {
		return neutralNarrative
	}
	return strings.Join(clauses, " ")
}
