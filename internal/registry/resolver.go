package registry

import "strings"

// Hints narrow a name lookup when the caller knows the player's position or
// pro team. Empty fields are not checked.
type Hints struct {
	Position string
	Team     string
}

// Fuzzy candidates need more than a bare surname match: either the first
// name agrees or a hint does.
const minFuzzyScore = 2

// Resolve maps a free-text player name to a registry player ID. It tries an
// exact lower-cased lookup first, then a canonical surname scan with scored
// tie-breaking. A failed lookup is a defined no-match, not an error.
func (ix *Index) Resolve(name string, hints Hints) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}

	wantPos := normalizePosition(hints.Position)
	wantTeam := strings.ToUpper(strings.TrimSpace(hints.Team))

	if id, ok := ix.exact[strings.ToLower(name)]; ok {
		rec := ix.byID[id]
		if matchesHints(rec, wantPos, wantTeam) {
			return id, true
		}
		// Exact name but wrong position/team: common-name collision,
		// fall through to the fuzzy scan.
	}

	canon := Canonicalize(name)
	if canon == "" {
		return "", false
	}
	givenKey, surnameKey := splitTokens(canon)

	bestID := ""
	bestScore := 0
	for _, cand := range ix.records {
		if cand.last != surnameKey {
			continue
		}
		score := 1
		if cand.first == givenKey {
			score += 2
		}
		if wantPos != "" && normalizePosition(cand.rec.Position) == wantPos {
			score += 3
		}
		if wantTeam != "" && strings.ToUpper(cand.rec.Team) == wantTeam {
			score += 3
		}
		if score > bestScore {
			bestScore = score
			bestID = cand.rec.ID
		}
	}

	if bestScore < minFuzzyScore {
		return "", false
	}
	return bestID, true
}

func matchesHints(rec Record, wantPos, wantTeam string) bool {
	if wantPos != "" && normalizePosition(rec.Position) != wantPos {
		return false
	}
	if wantTeam != "" && strings.ToUpper(rec.Team) != wantTeam {
		return false
	}
	return true
}

// normalizePosition folds the defense aliases together; spreadsheets and the
// catalog disagree on DST vs DEF.
func normalizePosition(pos string) string {
	pos = strings.ToUpper(strings.TrimSpace(pos))
	if pos == "DEF" || pos == "D/ST" {
		return "DST"
	}
	return pos
}
