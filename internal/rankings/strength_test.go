package rankings

import (
	"math"
	"testing"

	"github.com/stuckabuc/huddlebot/internal/models"
	"github.com/stuckabuc/huddlebot/internal/registry"
)

func testRegistry() *registry.Index {
	return registry.Build([]registry.Record{
		{ID: "p1", Name: "Josh Allen", FirstName: "Josh", LastName: "Allen", Position: "QB", Team: "BUF"},
		{ID: "p2", Name: "Bijan Robinson", FirstName: "Bijan", LastName: "Robinson", Position: "RB", Team: "ATL"},
		{ID: "p3", Name: "Puka Nacua", FirstName: "Puka", LastName: "Nacua", Position: "WR", Team: "LAR"},
		{ID: "p4", Name: "Trey McBride", FirstName: "Trey", LastName: "McBride", Position: "TE", Team: "ARI"},
	})
}

func row(name string, rank int, ros, next4 float64) models.ProjectionRow {
	return models.ProjectionRow{Player: name, Rank: rank, ROS: ros, Next4: next4}
}

func TestScoreRoster(t *testing.T) {
	ix := testRegistry()
	proj := ProjectionsByName([]models.ProjectionRow{
		row("Josh Allen", 1, 5, 10),
		row("Bijan Robinson", 3, 20, 0),
		row("Puka Nacua", 10, 0, 0),
	})

	roster := models.Roster{RosterID: 1, Players: []string{"p1", "p2", "p3", "p4", "unknown"}}
	score := ScoreRoster(roster, ix, proj)

	// p4 has no projection row and the unknown ID has no record; the pool
	// is ranks {1, 3, 10}.
	wantStrength := (1.0 + 3.0 + 10.0) / 3
	if score.Strength != wantStrength {
		t.Errorf("Strength = %v; want %v", score.Strength, wantStrength)
	}
	// Pooled schedule values: 5, 10 from Allen, 20 from Robinson.
	wantSchedule := (5.0 + 10.0 + 20.0) / 3
	if score.Schedule != wantSchedule {
		t.Errorf("Schedule = %v; want %v", score.Schedule, wantSchedule)
	}
}

func TestScoreRosterTopEightOnly(t *testing.T) {
	var records []registry.Record
	var rows []models.ProjectionRow
	var ids []string
	names := []string{
		"Aaron One", "Ben Two", "Carl Three", "Dan Four", "Ed Five",
		"Frank Six", "Gus Seven", "Hank Eight", "Ivan Nine", "Jack Ten",
	}
	for i, name := range names {
		id := string(rune('a' + i))
		records = append(records, registry.Record{ID: id, Name: name, Position: "RB"})
		rows = append(rows, row(name, (i+1)*10, 0, 0))
		ids = append(ids, id)
	}

	ix := registry.Build(records)
	score := ScoreRoster(models.Roster{RosterID: 1, Players: ids}, ix, ProjectionsByName(rows))

	// Only the best eight ranks (10..80) should be averaged.
	want := (10.0 + 20 + 30 + 40 + 50 + 60 + 70 + 80) / 8
	if score.Strength != want {
		t.Errorf("Strength = %v; want top-8 mean %v", score.Strength, want)
	}
	if score.Schedule != scheduleMidpoint {
		t.Errorf("Schedule = %v; want midpoint default %v", score.Schedule, scheduleMidpoint)
	}
}

// Filling an empty top-8 slot with another ranked player can only improve
// or hold the strength score when the newcomer ranks no worse than the mean.
func TestScoreRosterFillMonotonicity(t *testing.T) {
	ix := testRegistry()
	proj := ProjectionsByName([]models.ProjectionRow{
		row("Josh Allen", 40, 0, 0),
		row("Bijan Robinson", 2, 0, 0),
	})

	before := ScoreRoster(models.Roster{RosterID: 1, Players: []string{"p1"}}, ix, proj)
	after := ScoreRoster(models.Roster{RosterID: 1, Players: []string{"p1", "p2"}}, ix, proj)

	if after.Strength > before.Strength {
		t.Errorf("adding a better player worsened strength: %v -> %v", before.Strength, after.Strength)
	}
}

func TestScoreRosterEmpty(t *testing.T) {
	ix := testRegistry()

	cases := []struct {
		name   string
		roster models.Roster
		proj   map[string]models.ProjectionRow
	}{
		{"no projections uploaded", models.Roster{Players: []string{"p1", "p2"}}, ProjectionsByName(nil)},
		{"empty roster", models.Roster{}, ProjectionsByName([]models.ProjectionRow{row("Josh Allen", 1, 0, 0)})},
		{"rankless rows only", models.Roster{Players: []string{"p1"}}, ProjectionsByName([]models.ProjectionRow{row("Josh Allen", 0, 5, 5)})},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			score := ScoreRoster(c.roster, ix, c.proj)
			if !math.IsInf(score.Strength, 1) || !math.IsInf(score.Schedule, 1) {
				t.Errorf("score = %+v; want +Inf sentinels", score)
			}
		})
	}
}

func TestScoreRankingsInfLast(t *testing.T) {
	scores := map[int]TeamScore{
		1: {Strength: math.Inf(1), Schedule: math.Inf(1)},
		2: {Strength: 10, Schedule: 12},
		3: {Strength: 25, Schedule: 8},
	}

	strength := ScoreRankings(scores, func(s TeamScore) float64 { return s.Strength })
	if strength[2] != 1 || strength[3] != 2 || strength[1] != 3 {
		t.Errorf("strength ranks = %v; want 2->1, 3->2, 1->3", strength)
	}

	schedule := ScoreRankings(scores, func(s TeamScore) float64 { return s.Schedule })
	if schedule[3] != 1 || schedule[2] != 2 || schedule[1] != 3 {
		t.Errorf("schedule ranks = %v; want 3->1, 2->2, 1->3", schedule)
	}
}

func TestProjectionsByNameFirstSeen(t *testing.T) {
	byName := ProjectionsByName([]models.ProjectionRow{
		row("Josh Allen", 1, 0, 0),
		row("Josh Allen", 99, 0, 0),
		{Player: "", Rank: 5},
	})

	if len(byName) != 1 {
		t.Fatalf("len = %d; want 1 (nameless dropped, dup collapsed)", len(byName))
	}
	if byName["josh allen"].Rank != 1 {
		t.Errorf("Rank = %d; want first-seen 1", byName["josh allen"].Rank)
	}
}
