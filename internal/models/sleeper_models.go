package models

// Wire types for the Sleeper public API (https://api.sleeper.app/v1).

type NFLState struct {
	Week       int    `json:"week"`
	Season     string `json:"season"`
	SeasonType string `json:"season_type"`
}

type SleeperUser struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

type League struct {
	LeagueID     string `json:"league_id"`
	Name         string `json:"name"`
	Season       string `json:"season"`
	Status       string `json:"status"`
	TotalRosters int    `json:"total_rosters"`
}

type LeagueUser struct {
	UserID      string       `json:"user_id"`
	Username    string       `json:"username"`
	DisplayName string       `json:"display_name"`
	Metadata    UserMetadata `json:"metadata"`
}

type UserMetadata struct {
	TeamName string `json:"team_name"`
}

type Roster struct {
	RosterID int            `json:"roster_id"`
	OwnerID  string         `json:"owner_id"`
	Players  []string       `json:"players"`
	Starters []string       `json:"starters"`
	Taxi     []string       `json:"taxi"`
	Reserve  []string       `json:"reserve"`
	Settings RosterSettings `json:"settings"`
}

type RosterSettings struct {
	Wins               int `json:"wins"`
	Losses             int `json:"losses"`
	Ties               int `json:"ties"`
	Fpts               int `json:"fpts"`
	FptsDecimal        int `json:"fpts_decimal"`
	FptsAgainst        int `json:"fpts_against"`
	FptsAgainstDecimal int `json:"fpts_against_decimal"`
}

// PointsFor combines the whole and hundredths fields Sleeper splits
// cumulative scoring into.
func (r Roster) PointsFor() float64 {
	return float64(r.Settings.Fpts) + float64(r.Settings.FptsDecimal)/100
}

func (r Roster) PointsAgainst() float64 {
	return float64(r.Settings.FptsAgainst) + float64(r.Settings.FptsAgainstDecimal)/100
}

// AllPlayers unions the active, taxi, and reserve player ID sets,
// preserving first-seen order.
func (r Roster) AllPlayers() []string {
	seen := make(map[string]bool)
	var all []string
	for _, group := range [][]string{r.Players, r.Taxi, r.Reserve} {
		for _, id := range group {
			if id == "" || id == "0" || seen[id] {
				continue
			}
			seen[id] = true
			all = append(all, id)
		}
	}
	return all
}

type Player struct {
	PlayerID         string   `json:"player_id"`
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	FullName         string   `json:"full_name"`
	Team             string   `json:"team"`
	Position         string   `json:"position"`
	FantasyPositions []string `json:"fantasy_positions"`
}

// DisplayName prefers the catalog full name, falling back to first + last.
// Team defenses have no full_name in the Sleeper catalog.
func (p Player) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	name := p.FirstName
	if p.LastName != "" {
		if name != "" {
			name += " "
		}
		name += p.LastName
	}
	return name
}

// Matchup is one roster's entry for one scoring period. Entries sharing a
// MatchupID are head-to-head opponents.
type Matchup struct {
	RosterID  int     `json:"roster_id"`
	MatchupID int     `json:"matchup_id"`
	Points    float64 `json:"points"`
}
