package rankings

import (
	"sort"

	"github.com/stuckabuc/huddlebot/internal/models"
)

// AllPlayRanks scores recent form: for each requested scoring period every
// roster is ranked by points as if it had played the whole league, and each
// roster's mean finishing position across the window becomes its form rank.
//
// A roster missing from a period's score map counts as having scored zero
// that period; it is ranked, not excluded. A roster with no appearances at
// all (empty period set) defaults to the league midpoint. Returns dense
// ranks 1..N with roster-id tie-breaks.
func AllPlayRanks(rosters []models.Roster, periodScores map[int]map[int]float64, periods []int) map[int]int {
	n := len(rosters)
	if n == 0 {
		return map[int]int{}
	}

	positionSum := make(map[int]float64, n)
	appearances := make(map[int]int, n)

	for _, period := range periods {
		scores := periodScores[period]

		ids := make([]int, 0, n)
		for _, r := range rosters {
			ids = append(ids, r.RosterID)
		}
		sort.Slice(ids, func(i, j int) bool {
			a, b := scores[ids[i]], scores[ids[j]]
			if a != b {
				return a > b
			}
			return ids[i] < ids[j]
		})

		for pos, rid := range ids {
			positionSum[rid] += float64(pos + 1)
			appearances[rid]++
		}
	}

	means := make(map[int]float64, n)
	for _, r := range rosters {
		rid := r.RosterID
		if appearances[rid] == 0 {
			means[rid] = float64(n) / 2
			continue
		}
		means[rid] = positionSum[rid] / float64(appearances[rid])
	}

	ids := make([]int, 0, n)
	for _, r := range rosters {
		ids = append(ids, r.RosterID)
	}
	sort.Slice(ids, func(i, j int) bool {
		if means[ids[i]] != means[ids[j]] {
			return means[ids[i]] < means[ids[j]]
		}
		return ids[i] < ids[j]
	})

	ranks := make(map[int]int, n)
	for i, rid := range ids {
		ranks[rid] = i + 1
	}
	return ranks
}

// TrailingPeriods returns up to window completed periods before the current
// week, most recent first, never going below week 1.
func TrailingPeriods(currentWeek, window int) []int {
	var periods []int
	for w := currentWeek - 1; w >= 1 && len(periods) < window; w-- {
		periods = append(periods, w)
	}
	return periods
}
