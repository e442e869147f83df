package memory

import (
	"sync"
	"time"

	"github.com/stuckabuc/huddlebot/internal/models"
)

// Repository caches the session-lifetime state: the NFL state, the player
// catalog snapshot, and the currently loaded projection uploads.
type Repository struct {
	mu sync.RWMutex

	state        *models.NFLState
	stateUpdated time.Time

	players        map[string]models.Player
	playersUpdated time.Time

	myUserID string

	rosRows  []models.ProjectionRow
	weekRows []models.WeekProjectionRow
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) SaveState(state models.NFLState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = &state
	r.stateUpdated = time.Now()
}

func (r *Repository) GetState() (models.NFLState, time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state == nil {
		return models.NFLState{}, time.Time{}, false
	}
	return *r.state, r.stateUpdated, true
}

func (r *Repository) SavePlayers(players map[string]models.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players = players
	r.playersUpdated = time.Now()
}

func (r *Repository) GetPlayers() (map[string]models.Player, time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.players == nil {
		return nil, time.Time{}, false
	}
	return r.players, r.playersUpdated, true
}

func (r *Repository) SaveMyUserID(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.myUserID = id
}

func (r *Repository) GetMyUserID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.myUserID
}

// SaveROSRows replaces the current ROS upload and returns the rows it
// replaced, so the caller can diff rank movement between uploads.
func (r *Repository) SaveROSRows(rows []models.ProjectionRow) []models.ProjectionRow {
	r.mu.Lock()
	defer r.mu.Unlock()
	previous := r.rosRows
	r.rosRows = rows
	return previous
}

func (r *Repository) GetROSRows() []models.ProjectionRow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rosRows
}

func (r *Repository) SaveWeekRows(rows []models.WeekProjectionRow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.weekRows = rows
}

func (r *Repository) GetWeekRows() []models.WeekProjectionRow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.weekRows
}
