package registry

import "testing"

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Josh Allen", "josh allen"},
		{"punctuation stripped", "Ja'Marr Chase", "jamarr chase"},
		{"hyphen stripped", "Jaxon Smith-Njigba", "jaxon smithnjigba"},
		{"suffix dropped", "Kenneth Walker III", "kenneth walker"},
		{"jr dropped", "Michael Pittman Jr.", "michael pittman"},
		{"middle name collapsed", "Robert Mays Griffin", "robert griffin"},
		{"digits stripped", "Team 7 Defense", "team defense"},
		{"only suffix", "Jr.", ""},
		{"empty", "", ""},
		{"whitespace collapsed", "  Joe   Burrow  ", "joe burrow"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Canonicalize(c.in); got != c.want {
				t.Errorf("Canonicalize(%q) = %q; want %q", c.in, got, c.want)
			}
		})
	}
}

func TestBuildFirstSeenWins(t *testing.T) {
	ix := Build([]Record{
		{ID: "1", Name: "Lamar Jackson", Position: "QB", Team: "BAL"},
		{ID: "2", Name: "Lamar Jackson", Position: "CB", Team: "NYJ"},
	})

	id, ok := ix.Resolve("Lamar Jackson", Hints{})
	if !ok || id != "1" {
		t.Errorf("Resolve = (%q, %v); want first-seen record 1", id, ok)
	}
}

func TestBuildSkipsNamelessRecords(t *testing.T) {
	ix := Build([]Record{
		{ID: "1", Name: ""},
		{ID: "", Name: "Ghost Player"},
		{ID: "2", Name: "Real Player", Position: "RB"},
	})
	if ix.Len() != 1 {
		t.Errorf("Len = %d; want 1", ix.Len())
	}
}

func TestRecordLookup(t *testing.T) {
	ix := Build([]Record{{ID: "42", Name: "Derrick Henry", Position: "RB", Team: "BAL"}})

	rec, ok := ix.Record("42")
	if !ok {
		t.Fatal("Record(42) not found")
	}
	if rec.Name != "Derrick Henry" || rec.Team != "BAL" {
		t.Errorf("Record(42) = %+v; want Derrick Henry / BAL", rec)
	}
	if _, ok := ix.Record("missing"); ok {
		t.Error("Record(missing) = found; want not found")
	}
}
