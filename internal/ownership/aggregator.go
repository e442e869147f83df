// Package ownership maps players to the league rosters that hold them.
package ownership

import (
	"github.com/stuckabuc/huddlebot/internal/models"
	"github.com/stuckabuc/huddlebot/internal/registry"
)

// Aggregator is a reverse index from player ID to owning roster, built once
// per league snapshot.
type Aggregator struct {
	playerToRoster map[string]int
	myRosterIDs    map[int]bool
	index          *registry.Index
}

// Build unions each roster's active, taxi, and reserve sets into the
// player->roster map. A player improbably listed on two rosters stays with
// whichever roster came first in snapshot order.
func Build(rosters []models.Roster, myUserID string, ix *registry.Index) *Aggregator {
	a := &Aggregator{
		playerToRoster: make(map[string]int),
		myRosterIDs:    make(map[int]bool),
		index:          ix,
	}

	for _, r := range rosters {
		if myUserID != "" && r.OwnerID == myUserID {
			a.myRosterIDs[r.RosterID] = true
		}
		for _, pid := range r.AllPlayers() {
			if _, taken := a.playerToRoster[pid]; !taken {
				a.playerToRoster[pid] = r.RosterID
			}
		}
	}

	return a
}

// RosterOf returns the roster holding a player ID, if any.
func (a *Aggregator) RosterOf(playerID string) (int, bool) {
	rid, ok := a.playerToRoster[playerID]
	return rid, ok
}

// IsMine reports whether the roster belongs to the configured user.
func (a *Aggregator) IsMine(rosterID int) bool {
	return a.myRosterIDs[rosterID]
}

// Status classifies a free-text player name: UNKNOWN when the name does not
// resolve, FA when resolved but unowned, otherwise MINE or OTHER.
func (a *Aggregator) Status(name string, hints registry.Hints) models.OwnershipStatus {
	id, ok := a.index.Resolve(name, hints)
	if !ok {
		return models.StatusUnknown
	}
	rid, owned := a.playerToRoster[id]
	if !owned {
		return models.StatusFreeAgent
	}
	if a.myRosterIDs[rid] {
		return models.StatusMine
	}
	return models.StatusOther
}
