package rankings

import (
	"strings"
	"testing"

	"github.com/stuckabuc/huddlebot/internal/models"
)

func TestStars(t *testing.T) {
	cases := []struct {
		rank, size, want int
	}{
		{1, 10, 5},
		{2, 10, 5},
		{3, 10, 4},
		{4, 10, 4},
		{5, 10, 3},
		{6, 10, 3},
		{7, 10, 2},
		{8, 10, 2},
		{9, 10, 1},
		{10, 10, 1},
		{1, 12, 5},
		{12, 12, 1},
		{1, 0, 3}, // degenerate league size
	}
	for _, c := range cases {
		if got := Stars(c.rank, c.size); got != c.want {
			t.Errorf("Stars(%d, %d) = %d; want %d", c.rank, c.size, got, c.want)
		}
	}
}

func TestStarsMonotonic(t *testing.T) {
	const n = 12
	prev := 6
	for rank := 1; rank <= n; rank++ {
		s := Stars(rank, n)
		if s > prev {
			t.Fatalf("Stars not monotonic: rank %d -> %d after %d", rank, s, prev)
		}
		prev = s
	}
}

func TestSummarize(t *testing.T) {
	cases := []struct {
		name     string
		entry    models.PowerRankEntry
		contains []string
		exact    string
	}{
		{
			name:     "dominant team",
			entry:    models.PowerRankEntry{StrengthRank: 1, StandingsRank: 1, RollingRank: 1},
			contains: []string{"Loaded roster", "record backs it up", "Red hot"},
		},
		{
			name:     "struggling team",
			entry:    models.PowerRankEntry{StrengthRank: 10, StandingsRank: 9, RollingRank: 10},
			contains: []string{"Thin roster", "dragging them down", "wrong way"},
		},
		{
			name:  "nothing notable",
			entry: models.PowerRankEntry{StrengthRank: 5, StandingsRank: 5, RollingRank: 6},
			exact: neutralNarrative,
		},
		{
			name:     "mixed signals",
			entry:    models.PowerRankEntry{StrengthRank: 1, StandingsRank: 5, RollingRank: 9},
			contains: []string{"Loaded roster", "wrong way"},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Summarize(c.entry, 10)
			if c.exact != "" && got != c.exact {
				t.Fatalf("Summarize = %q; want %q", got, c.exact)
			}
			for _, want := range c.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Summarize = %q; missing %q", got, want)
				}
			}
		})
	}
}
