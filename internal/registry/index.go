// Package registry builds lookup structures over the Sleeper player catalog
// and resolves free-text player names against them.
package registry

import (
	"strings"

	"github.com/stuckabuc/huddlebot/internal/models"
)

// Record is one registry entry derived from the player catalog.
type Record struct {
	ID        string
	Name      string
	FirstName string
	LastName  string
	Team      string
	Position  string
}

type indexed struct {
	rec   Record
	first string // first token of the canonical name
	last  string // last token of the canonical name
}

// Index holds the per-snapshot lookup structures. Build it once per catalog
// refresh; lookups never mutate it.
type Index struct {
	exact     map[string]string // lower-cased full name -> player ID, first seen wins
	canonical map[string]string // canonical key -> player ID, first seen wins
	byID      map[string]Record
	records   []indexed
}

// Build indexes the given records. Records with no derivable name are
// skipped; building never fails.
func Build(records []Record) *Index {
	ix := &Index{
		exact:     make(map[string]string, len(records)),
		canonical: make(map[string]string, len(records)),
		byID:      make(map[string]Record, len(records)),
	}

	for _, rec := range records {
		if rec.Name == "" || rec.ID == "" {
			continue
		}
		ix.byID[rec.ID] = rec

		lower := strings.ToLower(rec.Name)
		if _, ok := ix.exact[lower]; !ok {
			ix.exact[lower] = rec.ID
		}

		canon := Canonicalize(rec.Name)
		if canon == "" {
			continue
		}
		if _, ok := ix.canonical[canon]; !ok {
			ix.canonical[canon] = rec.ID
		}

		first, last := splitTokens(canon)
		ix.records = append(ix.records, indexed{rec: rec, first: first, last: last})
	}

	return ix
}

// FromPlayers adapts the Sleeper catalog map into registry records.
func FromPlayers(players map[string]models.Player) []Record {
	records := make([]Record, 0, len(players))
	for id, p := range players {
		records = append(records, Record{
			ID:        id,
			Name:      p.DisplayName(),
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Team:      p.Team,
			Position:  p.Position,
		})
	}
	return records
}

// Record returns the registry record for a player ID.
func (ix *Index) Record(id string) (Record, bool) {
	rec, ok := ix.byID[id]
	return rec, ok
}

// Len reports how many records were indexed.
func (ix *Index) Len() int {
	return len(ix.records)
}

var suffixTokens = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true,
	"iv": true, "v": true, "vi": true,
}

// Canonicalize reduces a display name to a stable comparison key:
// lower-case, Latin letters and spaces only, generational suffixes dropped,
// and names longer than two tokens collapsed to first + last.
func Canonicalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteRune(' ')
		}
	}

	tokens := strings.Fields(b.String())
	kept := tokens[:0]
	for _, tok := range tokens {
		if suffixTokens[tok] {
			continue
		}
		kept = append(kept, tok)
	}

	if len(kept) > 2 {
		kept = []string{kept[0], kept[len(kept)-1]}
	}
	return strings.Join(kept, " ")
}

func splitTokens(canon string) (first, last string) {
	tokens := strings.Fields(canon)
	if len(tokens) == 0 {
		return "", ""
	}
	return tokens[0], tokens[len(tokens)-1]
}
