package rankings

import (
	"fmt"
	"math"
	"sort"

	"github.com/stuckabuc/huddlebot/internal/models"
)

// Weights blends the three dominant composite signals. Points-for and
// schedule ranks are computed and reported but carry no weight.
type Weights struct {
	Strength  float64
	Standings float64
	Rolling   float64
}

// DefaultWeights is the documented 40/30/30 blend.
var DefaultWeights = Weights{Strength: 0.40, Standings: 0.30, Rolling: 0.30}

// Validate rejects weight configurations that cannot produce a meaningful
// ordering. This is the one programmer-error path in the package; data
// sparsity never reaches it.
func (w Weights) Validate() error {
	for _, v := range []float64{w.Strength, w.Standings, w.Rolling} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid component weight %v", v)
		}
	}
	if sum := w.Strength + w.Standings + w.Rolling; math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("component weights sum to %v, want 1", sum)
	}
	return nil
}

// ComponentRanks carries the five precomputed 1..N orderings the composite
// blends or reports.
type ComponentRanks struct {
	PointsFor map[int]int
	Standings map[int]int
	Rolling   map[int]int
	Strength  map[int]int
	Schedule  map[int]int
}

// Composite blends the component ranks into the final power ranking. Lower
// weighted score is better; ties break by roster ID so the output ranks are
// always a permutation of 1..N. Delta is previous rank minus current rank
// when a previous snapshot holds the roster, nil otherwise.
func Composite(rosters []models.Roster, ranks ComponentRanks, w Weights, previous map[int]int) ([]models.PowerRankEntry, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	entries := make([]models.PowerRankEntry, 0, len(rosters))
	scores := make(map[int]float64, len(rosters))
	for _, r := range rosters {
		rid := r.RosterID
		entries = append(entries, models.PowerRankEntry{
			RosterID:      rid,
			PointsForRank: ranks.PointsFor[rid],
			StandingsRank: ranks.Standings[rid],
			RollingRank:   ranks.Rolling[rid],
			StrengthRank:  ranks.Strength[rid],
			ScheduleRank:  ranks.Schedule[rid],
		})
		scores[rid] = w.Strength*float64(ranks.Strength[rid]) +
			w.Standings*float64(ranks.Standings[rid]) +
			w.Rolling*float64(ranks.Rolling[rid])
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := scores[entries[i].RosterID], scores[entries[j].RosterID]
		if a != b {
			return a < b
		}
		return entries[i].RosterID < entries[j].RosterID
	})

	for i := range entries {
		entries[i].Rank = i + 1
		if prev, ok := previous[entries[i].RosterID]; ok {
			delta := prev - entries[i].Rank
			entries[i].Delta = &delta
		}
	}

	return entries, nil
}

// Snapshot extracts the {roster -> rank} pairs that become the next cycle's
// previous snapshot.
func Snapshot(entries []models.PowerRankEntry) map[int]int {
	snap := make(map[int]int, len(entries))
	for _, e := range entries {
		snap[e.RosterID] = e.Rank
	}
	return snap
}
