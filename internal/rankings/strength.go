// Package rankings computes team strength scores, all-play form, and the
// composite power ranking for a league snapshot.
package rankings

import (
	"math"
	"sort"
	"strings"

	"github.com/stuckabuc/huddlebot/internal/models"
	"github.com/stuckabuc/huddlebot/internal/registry"
)

// Up to this many of a roster's best-ranked players feed its scores.
const topPlayerCount = 8

// scheduleMidpoint is the neutral value on the 1-32 difficulty scale, used
// when no player in the scoring pool carries a schedule value.
const scheduleMidpoint = 16

// TeamScore pairs a roster's aggregate strength and schedule-difficulty
// scores. Lower is better for both. Both are +Inf for a roster with no
// resolvable ranked players.
type TeamScore struct {
	Strength float64
	Schedule float64
}

// ProjectionsByName keys projection rows by lower-cased player name.
// First-seen wins on duplicate names, matching the registry's exact index.
func ProjectionsByName(rows []models.ProjectionRow) map[string]models.ProjectionRow {
	byName := make(map[string]models.ProjectionRow, len(rows))
	for _, row := range rows {
		if row.Player == "" {
			continue
		}
		key := strings.ToLower(row.Player)
		if _, ok := byName[key]; !ok {
			byName[key] = row
		}
	}
	return byName
}

// ScoreRoster joins a roster's players to their projection rows by exact
// lower-cased name, keeps the best-ranked eight, and averages their overall
// ranks and pooled schedule-difficulty values.
func ScoreRoster(roster models.Roster, ix *registry.Index, projByName map[string]models.ProjectionRow) TeamScore {
	var ranked []models.ProjectionRow
	for _, pid := range roster.AllPlayers() {
		rec, ok := ix.Record(pid)
		if !ok {
			continue
		}
		row, ok := projByName[strings.ToLower(rec.Name)]
		if !ok || row.Rank <= 0 {
			continue
		}
		ranked = append(ranked, row)
	}

	if len(ranked) == 0 {
		return TeamScore{Strength: math.Inf(1), Schedule: math.Inf(1)}
	}

	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Rank < ranked[j].Rank })
	if len(ranked) > topPlayerCount {
		ranked = ranked[:topPlayerCount]
	}

	var rankSum float64
	var schedSum float64
	schedCount := 0
	for _, row := range ranked {
		rankSum += float64(row.Rank)
		if row.ROS > 0 {
			schedSum += row.ROS
			schedCount++
		}
		if row.Next4 > 0 {
			schedSum += row.Next4
			schedCount++
		}
	}

	score := TeamScore{Strength: rankSum / float64(len(ranked))}
	if schedCount > 0 {
		score.Schedule = schedSum / float64(schedCount)
	} else {
		score.Schedule = scheduleMidpoint
	}
	return score
}

// ScoreRankings converts per-roster scores into dense 1..N ranks, ascending
// by score with roster-id tie-breaks. Infinite scores sort last.
func ScoreRankings(scores map[int]TeamScore, pick func(TeamScore) float64) map[int]int {
	ids := make([]int, 0, len(scores))
	for rid := range scores {
		ids = append(ids, rid)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := pick(scores[ids[i]]), pick(scores[ids[j]])
		if a != b {
			return a < b
		}
		return ids[i] < ids[j]
	})

	ranks := make(map[int]int, len(ids))
	for i, rid := range ids {
		ranks[rid] = i + 1
	}
	return ranks
}
