package registry

import "testing"

func testIndex() *Index {
	return Build([]Record{
		{ID: "p1", Name: "Josh Allen", FirstName: "Josh", LastName: "Allen", Position: "QB", Team: "BUF"},
		{ID: "p2", Name: "Keenan Allen", FirstName: "Keenan", LastName: "Allen", Position: "WR", Team: "CHI"},
		{ID: "p3", Name: "Michael Pittman Jr.", FirstName: "Michael", LastName: "Pittman", Position: "WR", Team: "IND"},
		{ID: "p4", Name: "Ja'Marr Chase", FirstName: "Ja'Marr", LastName: "Chase", Position: "WR", Team: "CIN"},
		{ID: "p5", Name: "Najee Harris", FirstName: "Najee", LastName: "Harris", Position: "RB", Team: "PIT"},
	})
}

func TestResolveExact(t *testing.T) {
	ix := testIndex()

	cases := []struct {
		name   string
		query  string
		hints  Hints
		wantID string
		wantOK bool
	}{
		{"exact unique", "Josh Allen", Hints{}, "p1", true},
		{"exact case-insensitive", "josh allen", Hints{}, "p1", true},
		{"exact with matching position hint", "Josh Allen", Hints{Position: "QB"}, "p1", true},
		{"exact with matching team hint", "Josh Allen", Hints{Team: "buf"}, "p1", true},
		{"empty name", "", Hints{}, "", false},
		{"whitespace only", "   ", Hints{}, "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			id, ok := ix.Resolve(c.query, c.hints)
			if ok != c.wantOK || id != c.wantID {
				t.Errorf("Resolve(%q, %+v) = (%q, %v); want (%q, %v)",
					c.query, c.hints, id, ok, c.wantID, c.wantOK)
			}
		})
	}
}

// Two registry records with the same full name must disambiguate on the
// position hint.
func TestResolveHintDisambiguation(t *testing.T) {
	ix := Build([]Record{
		{ID: "qb", Name: "Lamar Jackson", FirstName: "Lamar", LastName: "Jackson", Position: "QB", Team: "BAL"},
		{ID: "cb", Name: "Lamar Jackson", FirstName: "Lamar", LastName: "Jackson", Position: "CB", Team: "NYJ"},
	})

	id, ok := ix.Resolve("Lamar Jackson", Hints{Position: "CB"})
	if !ok || id != "cb" {
		t.Errorf("Resolve with CB hint = (%q, %v); want cb", id, ok)
	}
	id, ok = ix.Resolve("Lamar Jackson", Hints{Position: "QB"})
	if !ok || id != "qb" {
		t.Errorf("Resolve with QB hint = (%q, %v); want qb", id, ok)
	}
}

func TestResolveFuzzy(t *testing.T) {
	ix := testIndex()

	cases := []struct {
		name   string
		query  string
		hints  Hints
		wantID string
		wantOK bool
	}{
		// First-name agreement clears the threshold without hints.
		{"suffix variant", "Michael Pittman", Hints{}, "p3", true},
		{"punctuation variant", "Jamarr Chase", Hints{}, "p4", true},
		// Bare surname match scores 1 and must be rejected.
		{"surname only, no hints", "Zeke Harris", Hints{}, "", false},
		// A hint lifts a surname match over the threshold.
		{"surname plus position hint", "N. Harris", Hints{Position: "RB"}, "p5", true},
		{"surname plus team hint", "N. Harris", Hints{Team: "PIT"}, "p5", true},
		// Hints pick between records sharing a surname.
		{"shared surname, position hint", "X Allen", Hints{Position: "WR"}, "p2", true},
		{"unknown name", "Nonexistent Player", Hints{}, "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			id, ok := ix.Resolve(c.query, c.hints)
			if ok != c.wantOK || id != c.wantID {
				t.Errorf("Resolve(%q, %+v) = (%q, %v); want (%q, %v)",
					c.query, c.hints, id, ok, c.wantID, c.wantOK)
			}
		})
	}
}

// An exact name hit with a contradicting hint must not short-circuit: the
// scan can still find the hinted record.
func TestResolveExactCollisionFallsThrough(t *testing.T) {
	ix := testIndex()

	// "Josh Allen" exists, but the WR hint contradicts it; Keenan Allen is
	// the only WR Allen, and surname + position hint scores 4.
	id, ok := ix.Resolve("Josh Allen", Hints{Position: "WR"})
	if !ok || id != "p2" {
		t.Errorf("Resolve(Josh Allen, WR) = (%q, %v); want p2 via fuzzy scan", id, ok)
	}
}

func TestResolveDeterministicTies(t *testing.T) {
	ix := Build([]Record{
		{ID: "a", Name: "Chris Johnson", FirstName: "Chris", LastName: "Johnson", Position: "RB", Team: "TEN"},
		{ID: "b", Name: "David Johnson", FirstName: "David", LastName: "Johnson", Position: "RB", Team: "ARI"},
	})

	// Both surname-match at score 1 + position hint 3; neither first name
	// matches "cj". First encountered wins and repeated calls agree.
	first, ok := ix.Resolve("CJ Johnson", Hints{Position: "RB"})
	if !ok || first != "a" {
		t.Fatalf("Resolve = (%q, %v); want a", first, ok)
	}
	for i := 0; i < 5; i++ {
		again, _ := ix.Resolve("CJ Johnson", Hints{Position: "RB"})
		if again != first {
			t.Fatalf("Resolve not deterministic: got %q then %q", first, again)
		}
	}
}
