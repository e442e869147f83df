package rankings

import (
	"sort"

	"github.com/stuckabuc/huddlebot/internal/models"
)

// StandingsRanks orders rosters by wins, then points-for, then roster ID so
// the ordering is total even when records collide.
func StandingsRanks(rosters []models.Roster) map[int]int {
	sorted := make([]models.Roster, len(rosters))
	copy(sorted, rosters)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Settings.Wins != sorted[j].Settings.Wins {
			return sorted[i].Settings.Wins > sorted[j].Settings.Wins
		}
		if sorted[i].PointsFor() != sorted[j].PointsFor() {
			return sorted[i].PointsFor() > sorted[j].PointsFor()
		}
		return sorted[i].RosterID < sorted[j].RosterID
	})

	ranks := make(map[int]int, len(sorted))
	for i, r := range sorted {
		ranks[r.RosterID] = i + 1
	}
	return ranks
}

// PointsForRanks orders rosters by cumulative points scored, descending.
func PointsForRanks(rosters []models.Roster) map[int]int {
	sorted := make([]models.Roster, len(rosters))
	copy(sorted, rosters)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].PointsFor() != sorted[j].PointsFor() {
			return sorted[i].PointsFor() > sorted[j].PointsFor()
		}
		return sorted[i].RosterID < sorted[j].RosterID
	})

	ranks := make(map[int]int, len(sorted))
	for i, r := range sorted {
		ranks[r.RosterID] = i + 1
	}
	return ranks
}
