package sleeper

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/stuckabuc/huddlebot/internal/models"
)

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

func (a *API) GetState() (models.NFLState, error) {
	var state models.NFLState
	if err := a.client.Get("/state/nfl", &state); err != nil {
		return models.NFLState{}, fmt.Errorf("fetching NFL state: %w", err)
	}
	return state, nil
}

func (a *API) GetUser(username string) (models.SleeperUser, error) {
	var user models.SleeperUser
	if err := a.client.Get(fmt.Sprintf("/user/%s", username), &user); err != nil {
		return models.SleeperUser{}, fmt.Errorf("fetching user %s: %w", username, err)
	}
	return user, nil
}

// GetPlayers fetches the full player catalog, keyed by player ID. Served
// through the caching transport.
func (a *API) GetPlayers() (map[string]models.Player, error) {
	var players map[string]models.Player
	if err := a.client.GetCached("/players/nfl", &players); err != nil {
		return nil, fmt.Errorf("fetching player catalog: %w", err)
	}
	// The catalog keys every entry by ID but team defenses omit the
	// player_id field in the body.
	for id, p := range players {
		if p.PlayerID == "" {
			p.PlayerID = id
			players[id] = p
		}
	}
	return players, nil
}

func (a *API) GetLeague(leagueID string) (models.League, error) {
	var league models.League
	if err := a.client.Get(fmt.Sprintf("/league/%s", leagueID), &league); err != nil {
		return models.League{}, fmt.Errorf("fetching league %s: %w", leagueID, err)
	}
	return league, nil
}

func (a *API) GetRosters(leagueID string) ([]models.Roster, error) {
	var rosters []models.Roster
	if err := a.client.Get(fmt.Sprintf("/league/%s/rosters", leagueID), &rosters); err != nil {
		return nil, fmt.Errorf("fetching rosters for league %s: %w", leagueID, err)
	}
	return rosters, nil
}

func (a *API) GetLeagueUsers(leagueID string) ([]models.LeagueUser, error) {
	var users []models.LeagueUser
	if err := a.client.Get(fmt.Sprintf("/league/%s/users", leagueID), &users); err != nil {
		return nil, fmt.Errorf("fetching users for league %s: %w", leagueID, err)
	}
	return users, nil
}

// GetMatchups returns every roster's score entry for one week. A roster
// absent from the response simply has no recorded score for that week.
func (a *API) GetMatchups(leagueID string, week int) ([]models.Matchup, error) {
	var matchups []models.Matchup
	endpoint := fmt.Sprintf("/league/%s/matchups/%d", leagueID, week)
	if err := a.client.Get(endpoint, &matchups); err != nil {
		return nil, fmt.Errorf("fetching matchups for league %s week %d: %w", leagueID, week, err)
	}
	return matchups, nil
}

// LeagueData bundles the parallel-fetched per-league snapshot inputs.
type LeagueData struct {
	League  models.League
	Rosters []models.Roster
	Users   []models.LeagueUser
	Scores  map[int]map[int]float64 // week -> roster ID -> points
}

// GetLeagueData fetches the league, its rosters and users, and the score
// entries for the requested weeks concurrently.
func (a *API) GetLeagueData(ctx context.Context, leagueID string, weeks []int) (*LeagueData, error) {
	data := &LeagueData{Scores: make(map[int]map[int]float64, len(weeks))}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		league, err := a.GetLeague(leagueID)
		if err != nil {
			return err
		}
		data.League = league
		return nil
	})
	g.Go(func() error {
		rosters, err := a.GetRosters(leagueID)
		if err != nil {
			return err
		}
		data.Rosters = rosters
		return nil
	})
	g.Go(func() error {
		users, err := a.GetLeagueUsers(leagueID)
		if err != nil {
			return err
		}
		data.Users = users
		return nil
	})

	weekScores := make([]map[int]float64, len(weeks))
	for i, week := range weeks {
		i, week := i, week
		g.Go(func() error {
			matchups, err := a.GetMatchups(leagueID, week)
			if err != nil {
				return err
			}
			scores := make(map[int]float64, len(matchups))
			for _, m := range matchups {
				scores[m.RosterID] = m.Points
			}
			weekScores[i] = scores
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, week := range weeks {
		data.Scores[week] = weekScores[i]
	}
	return data, nil
}
