package service

import (
	"fmt"
	"sort"

	"github.com/stuckabuc/huddlebot/internal/models"
	"github.com/stuckabuc/huddlebot/internal/rankings"
	"github.com/stuckabuc/huddlebot/internal/registry"
)

// Snapshot is one league's immutable inputs, captured before any
// computation starts. Every compute function below is pure over it.
type Snapshot struct {
	LeagueID string
	League   models.League
	Rosters  []models.Roster
	Users    []models.LeagueUser
	Periods  []int
	Scores   map[int]map[int]float64 // period -> roster ID -> points
	MyUserID string
	Week     int
}

// TeamViews resolves each roster's display name through the three-level
// fallback (custom team name, display name, username) and orders the list
// with the caller's own team first, then alphabetically.
func TeamViews(snap *Snapshot) []models.TeamView {
	usersByID := make(map[string]models.LeagueUser, len(snap.Users))
	for _, u := range snap.Users {
		usersByID[u.UserID] = u
	}

	views := make([]models.TeamView, 0, len(snap.Rosters))
	for _, r := range snap.Rosters {
		owner := usersByID[r.OwnerID]
		name := owner.Metadata.TeamName
		if name == "" {
			name = owner.DisplayName
		}
		if name == "" {
			name = owner.Username
		}
		if name == "" {
			name = fmt.Sprintf("Team %d", r.RosterID)
		}
		views = append(views, models.TeamView{
			RosterID:      r.RosterID,
			OwnerID:       r.OwnerID,
			DisplayName:   name,
			IsMine:        snap.MyUserID != "" && r.OwnerID == snap.MyUserID,
			Wins:          r.Settings.Wins,
			Losses:        r.Settings.Losses,
			Ties:          r.Settings.Ties,
			PointsFor:     r.PointsFor(),
			PointsAgainst: r.PointsAgainst(),
		})
	}

	sort.Slice(views, func(i, j int) bool {
		if views[i].IsMine != views[j].IsMine {
			return views[i].IsMine
		}
		return views[i].DisplayName < views[j].DisplayName
	})
	return views
}

// ComputeRankings runs the full pipeline for one snapshot: per-roster
// strength and schedule scores, the five component rank sets, the weighted
// composite with deltas against the previous snapshot, and a narrative per
// entry. Output is sorted by final rank.
func ComputeRankings(snap *Snapshot, ix *registry.Index, rosRows []models.ProjectionRow,
	previous map[int]int, weights rankings.Weights) ([]models.PowerRankEntry, error) {

	projByName := rankings.ProjectionsByName(rosRows)
	scores := make(map[int]rankings.TeamScore, len(snap.Rosters))
	for _, r := range snap.Rosters {
		scores[r.RosterID] = rankings.ScoreRoster(r, ix, projByName)
	}

	ranks := rankings.ComponentRanks{
		PointsFor: rankings.PointsForRanks(snap.Rosters),
		Standings: rankings.StandingsRanks(snap.Rosters),
		Rolling:   rankings.AllPlayRanks(snap.Rosters, snap.Scores, snap.Periods),
		Strength:  rankings.ScoreRankings(scores, func(s rankings.TeamScore) float64 { return s.Strength }),
		Schedule:  rankings.ScoreRankings(scores, func(s rankings.TeamScore) float64 { return s.Schedule }),
	}

	entries, err := rankings.Composite(snap.Rosters, ranks, weights, previous)
	if err != nil {
		return nil, err
	}

	size := len(snap.Rosters)
	for i := range entries {
		entries[i].Narrative = rankings.Summarize(entries[i], size)
	}
	return entries, nil
}
