package service

import (
	"fmt"
	"testing"

	"github.com/stuckabuc/huddlebot/internal/models"
	"github.com/stuckabuc/huddlebot/internal/ownership"
	"github.com/stuckabuc/huddlebot/internal/rankings"
	"github.com/stuckabuc/huddlebot/internal/registry"
)

func TestTeamViewsNameFallback(t *testing.T) {
	snap := &Snapshot{
		MyUserID: "u2",
		Rosters: []models.Roster{
			{RosterID: 1, OwnerID: "u1"},
			{RosterID: 2, OwnerID: "u2"},
			{RosterID: 3, OwnerID: "u3"},
			{RosterID: 4, OwnerID: "u4"},
		},
		Users: []models.LeagueUser{
			{UserID: "u1", Username: "alpha", DisplayName: "Alpha", Metadata: models.UserMetadata{TeamName: "Custom Squad"}},
			{UserID: "u2", Username: "beta", DisplayName: "Beta Display"},
			{UserID: "u3", Username: "gamma"},
		},
	}

	views := TeamViews(snap)
	if len(views) != 4 {
		t.Fatalf("views = %d, want 4", len(views))
	}

	// Own team sorts first regardless of name.
	if !views[0].IsMine || views[0].DisplayName != "Beta Display" {
		t.Errorf("first view = %+v, want own team Beta Display", views[0])
	}

	names := make(map[int]string)
	for _, v := range views {
		names[v.RosterID] = v.DisplayName
	}
	want := map[int]string{
		1: "Custom Squad", // metadata team name wins
		2: "Beta Display", // display name fallback
		3: "gamma",        // username fallback
		4: "Team 4",       // no league user at all
	}
	for rid, name := range want {
		if names[rid] != name {
			t.Errorf("roster %d name = %q, want %q", rid, names[rid], name)
		}
	}

	// Remaining teams alphabetical.
	if views[1].DisplayName != "Custom Squad" || views[2].DisplayName != "Team 4" || views[3].DisplayName != "gamma" {
		t.Errorf("order = %q %q %q, want alphabetical after own team",
			views[1].DisplayName, views[2].DisplayName, views[3].DisplayName)
	}
}

// computeSnapshot builds a four-team league where roster 1 holds the only
// projected players and also leads the standings and recent scores.
func computeSnapshot() (*Snapshot, *registry.Index, []models.ProjectionRow) {
	var records []registry.Record
	var starters []string
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("p%d", i)
		records = append(records, registry.Record{
			ID: id, Name: fmt.Sprintf("Starter %c", 'A'+i), Position: "RB", Team: "KC",
		})
		starters = append(starters, id)
	}
	ix := registry.Build(records)

	var rows []models.ProjectionRow
	for i, rec := range records {
		rows = append(rows, models.ProjectionRow{
			Rank: i + 1, Player: rec.Name, Position: "RB", PosRank: i + 1,
			ROS: 10, Next4: 12,
		})
	}

	rosters := []models.Roster{
		{RosterID: 1, OwnerID: "u1", Players: starters, Starters: starters,
			Settings: models.RosterSettings{Wins: 5, Fpts: 600}},
		{RosterID: 2, OwnerID: "u2", Settings: models.RosterSettings{Wins: 3, Fpts: 500}},
		{RosterID: 3, OwnerID: "u3", Settings: models.RosterSettings{Wins: 2, Fpts: 400}},
		{RosterID: 4, OwnerID: "u4", Settings: models.RosterSettings{Wins: 0, Fpts: 300}},
	}

	snap := &Snapshot{
		LeagueID: "league-1",
		League:   models.League{Name: "Test League"},
		Rosters:  rosters,
		Periods:  []int{3, 2, 1},
		Scores: map[int]map[int]float64{
			1: {1: 140, 2: 120, 3: 100, 4: 80},
			2: {1: 135, 2: 115, 3: 95, 4: 85},
			3: {1: 150, 2: 110, 3: 105, 4: 70},
		},
		MyUserID: "u1",
		Week:     4,
	}
	return snap, ix, rows
}

func TestComputeRankingsDominantTeam(t *testing.T) {
	snap, ix, rows := computeSnapshot()

	entries, err := ComputeRankings(snap, ix, rows, nil, rankings.DefaultWeights)
	if err != nil {
		t.Fatalf("ComputeRankings: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(entries))
	}

	// Ranks are a dense permutation in output order.
	for i, e := range entries {
		if e.Rank != i+1 {
			t.Errorf("entries[%d].Rank = %d, want %d", i, e.Rank, i+1)
		}
		if e.Delta != nil {
			t.Errorf("roster %d delta = %d, want nil with no prior snapshot", e.RosterID, *e.Delta)
		}
		if e.Narrative == "" {
			t.Errorf("roster %d has empty narrative", e.RosterID)
		}
	}

	// Roster 1 leads every component it can lead, so it leads the composite.
	top := entries[0]
	if top.RosterID != 1 {
		t.Fatalf("top roster = %d, want 1", top.RosterID)
	}
	if top.StrengthRank != 1 || top.StandingsRank != 1 || top.RollingRank != 1 || top.PointsForRank != 1 {
		t.Errorf("roster 1 component ranks = %+v, want all 1", top)
	}
}

func TestComputeRankingsDeltas(t *testing.T) {
	snap, ix, rows := computeSnapshot()

	// Previous cycle had roster 1 in third and no record for roster 4.
	previous := map[int]int{1: 3, 2: 1, 3: 2}
	entries, err := ComputeRankings(snap, ix, rows, previous, rankings.DefaultWeights)
	if err != nil {
		t.Fatalf("ComputeRankings: %v", err)
	}

	byRoster := make(map[int]models.PowerRankEntry)
	for _, e := range entries {
		byRoster[e.RosterID] = e
	}

	e1 := byRoster[1]
	if e1.Delta == nil || *e1.Delta != 3-e1.Rank {
		t.Errorf("roster 1 delta = %v, want %d", e1.Delta, 3-e1.Rank)
	}
	if byRoster[4].Delta != nil {
		t.Errorf("roster 4 delta = %v, want nil for roster missing from prior snapshot", byRoster[4].Delta)
	}
}

func TestComputeRankingsWithoutProjections(t *testing.T) {
	snap, ix, _ := computeSnapshot()

	// No ROS upload: strength and schedule fall back to the no-data
	// sentinel for everyone, and standings plus recent form decide.
	entries, err := ComputeRankings(snap, ix, nil, nil, rankings.DefaultWeights)
	if err != nil {
		t.Fatalf("ComputeRankings: %v", err)
	}
	if entries[0].RosterID != 1 {
		t.Errorf("top roster = %d, want 1 on record and recent form", entries[0].RosterID)
	}
	for _, e := range entries {
		if e.StrengthRank < 1 || e.StrengthRank > len(entries) {
			t.Errorf("roster %d strength rank = %d out of range", e.RosterID, e.StrengthRank)
		}
	}
}

// A resolved star player on the caller's own roster flows through
// resolution, ownership, and strength scoring in one pass.
func TestStarPlayerScenario(t *testing.T) {
	ix := registry.Build([]registry.Record{
		{ID: "p1", Name: "Josh Allen", Position: "QB", Team: "BUF"},
		{ID: "p2", Name: "Keenan Allen", Position: "WR", Team: "CHI"},
	})
	rows := []models.ProjectionRow{
		{Rank: 1, Player: "Josh Allen", Position: "QB", PosRank: 1, ROS: 5},
	}
	rosters := []models.Roster{
		{RosterID: 1, OwnerID: "me", Players: []string{"p1"}, Starters: []string{"p1"}},
		{RosterID: 2, OwnerID: "other"},
	}

	id, ok := ix.Resolve("josh allen", registry.Hints{})
	if !ok || id != "p1" {
		t.Fatalf("Resolve(josh allen) = %q, %v, want p1", id, ok)
	}

	agg := ownership.Build(rosters, "me", ix)
	if got := agg.Status("Josh Allen", registry.Hints{}); got != models.StatusMine {
		t.Errorf("Status(Josh Allen) = %v, want MINE", got)
	}

	score := rankings.ScoreRoster(rosters[0], ix, rankings.ProjectionsByName(rows))
	if score.Strength != 1 {
		t.Errorf("Strength = %v, want 1 (mean of the single overall rank)", score.Strength)
	}
}

func TestComputeRankingsBadWeights(t *testing.T) {
	snap, ix, rows := computeSnapshot()
	if _, err := ComputeRankings(snap, ix, rows, nil, rankings.Weights{Strength: 1, Standings: 1, Rolling: 1}); err == nil {
		t.Fatal("expected error for weights that do not sum to 1")
	}
}
