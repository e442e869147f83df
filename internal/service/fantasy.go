package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/stuckabuc/huddlebot/internal/api/sleeper"
	"github.com/stuckabuc/huddlebot/internal/config"
	"github.com/stuckabuc/huddlebot/internal/models"
	"github.com/stuckabuc/huddlebot/internal/ownership"
	"github.com/stuckabuc/huddlebot/internal/projections"
	"github.com/stuckabuc/huddlebot/internal/rankings"
	"github.com/stuckabuc/huddlebot/internal/registry"
	"github.com/stuckabuc/huddlebot/internal/repository/memory"
	"github.com/stuckabuc/huddlebot/internal/repository/sqlite"
)

const (
	// Recent form looks at the three most recently completed weeks.
	rollingWindow = 3

	stateMaxAge   = time.Hour
	playersMaxAge = 24 * time.Hour

	// Minimum similarity for fuzzy team-name matching.
	teamMatchThreshold = 0.6
)

// ErrStaleLeague reports that the active league changed while a computation
// was in flight; the result was discarded rather than merged.
var ErrStaleLeague = errors.New("active league changed during computation")

type FantasyService struct {
	api     *sleeper.API
	repo    *memory.Repository
	store   *sqlite.Store
	sleeper config.Sleeper
	storage config.Storage

	mu             sync.RWMutex
	activeLeagueID string
	index          *registry.Index
}

func NewFantasyService(api *sleeper.API, repo *memory.Repository, store *sqlite.Store, cfg *config.Config) *FantasyService {
	s := &FantasyService{
		api:     api,
		repo:    repo,
		store:   store,
		sleeper: cfg.Sleeper,
		storage: cfg.Storage,
	}
	if len(cfg.Sleeper.LeagueIDs) > 0 {
		s.activeLeagueID = cfg.Sleeper.LeagueIDs[0]
	}
	return s
}

// Bootstrap loads the session-lifetime state: NFL week, the acting user,
// the player catalog, persisted projection rows, and any configured
// projection files. Projection-file problems are logged, not fatal.
func (s *FantasyService) Bootstrap(ctx context.Context) error {
	state, err := s.api.GetState()
	if err != nil {
		return err
	}
	s.repo.SaveState(state)

	user, err := s.api.GetUser(s.sleeper.Username)
	if err != nil {
		return err
	}
	s.repo.SaveMyUserID(user.UserID)

	if _, err := s.ensureIndex(); err != nil {
		return err
	}

	if rows, err := s.store.LoadROSRows(); err != nil {
		slog.Error("Loading persisted ROS rows", "error", err)
	} else if len(rows) > 0 {
		s.repo.SaveROSRows(rows)
		slog.Info("Restored ROS upload", "rows", len(rows))
	}

	if s.storage.ROSCSVPath != "" {
		if err := s.LoadROSFile(s.storage.ROSCSVPath); err != nil {
			slog.Error("Loading ROS file", "path", s.storage.ROSCSVPath, "error", err)
		}
	}
	if s.storage.WeekCSVPath != "" {
		if err := s.LoadWeekFile(s.storage.WeekCSVPath); err != nil {
			slog.Error("Loading week file", "path", s.storage.WeekCSVPath, "error", err)
		}
	}

	return nil
}

func (s *FantasyService) ActiveLeague() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeLeagueID
}

// SetActiveLeague switches the league every report targets. The ID must be
// one of the configured leagues.
func (s *FantasyService) SetActiveLeague(leagueID string) error {
	found := false
	for _, id := range s.sleeper.LeagueIDs {
		if id == leagueID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("league %s is not configured", leagueID)
	}

	s.mu.Lock()
	s.activeLeagueID = leagueID
	s.mu.Unlock()
	slog.Info("Switched active league", "league", leagueID)
	return nil
}

// ListLeagues formats the configured leagues with their Sleeper names.
func (s *FantasyService) ListLeagues() (string, error) {
	var sb strings.Builder
	sb.WriteString("🏟 *Configured Leagues*\n\n")
	active := s.ActiveLeague()
	for _, id := range s.sleeper.LeagueIDs {
		league, err := s.api.GetLeague(id)
		if err != nil {
			return "", fmt.Errorf("error fetching league %s: %w", id, err)
		}
		marker := ""
		if id == active {
			marker = " (active)"
		}
		sb.WriteString(fmt.Sprintf("• *%s*%s\n  `%s`\n", league.Name, marker, id))
	}
	sb.WriteString("\nSwitch with /league <id>")
	return sb.String(), nil
}

func (s *FantasyService) currentState() (models.NFLState, error) {
	state, updated, ok := s.repo.GetState()
	if ok && time.Since(updated) < stateMaxAge {
		return state, nil
	}
	state, err := s.api.GetState()
	if err != nil {
		if ok {
			return state, nil // stale beats unavailable
		}
		return models.NFLState{}, err
	}
	s.repo.SaveState(state)
	return state, nil
}

// ensureIndex returns the registry index, rebuilding it when the cached
// player catalog has aged out.
func (s *FantasyService) ensureIndex() (*registry.Index, error) {
	s.mu.RLock()
	ix := s.index
	s.mu.RUnlock()

	_, updated, ok := s.repo.GetPlayers()
	if ix != nil && ok && time.Since(updated) < playersMaxAge {
		return ix, nil
	}

	players, err := s.api.GetPlayers()
	if err != nil {
		if ix != nil {
			return ix, nil
		}
		return nil, err
	}
	s.repo.SavePlayers(players)

	ix = registry.Build(registry.FromPlayers(players))
	s.mu.Lock()
	s.index = ix
	s.mu.Unlock()
	slog.Info("Rebuilt player registry index", "records", ix.Len())
	return ix, nil
}

func (s *FantasyService) loadSnapshot(ctx context.Context, leagueID string) (*Snapshot, error) {
	state, err := s.currentState()
	if err != nil {
		return nil, fmt.Errorf("error fetching NFL state: %w", err)
	}

	periods := rankings.TrailingPeriods(state.Week, rollingWindow)
	data, err := s.api.GetLeagueData(ctx, leagueID, periods)
	if err != nil {
		return nil, fmt.Errorf("error fetching league snapshot: %w", err)
	}

	return &Snapshot{
		LeagueID: leagueID,
		League:   data.League,
		Rosters:  data.Rosters,
		Users:    data.Users,
		Periods:  periods,
		Scores:   data.Scores,
		MyUserID: s.repo.GetMyUserID(),
		Week:     state.Week,
	}, nil
}

// GetPowerRankings computes and formats the composite power ranking for the
// active league, persisting the new snapshot for next cycle's deltas. If
// the active league changes mid-computation the result is discarded.
func (s *FantasyService) GetPowerRankings(ctx context.Context) (string, error) {
	target := s.ActiveLeague()
	if target == "" {
		return "", errors.New("no active league configured")
	}

	ix, err := s.ensureIndex()
	if err != nil {
		return "", fmt.Errorf("error building registry index: %w", err)
	}
	snap, err := s.loadSnapshot(ctx, target)
	if err != nil {
		return "", err
	}
	previous, err := s.store.LoadRankSnapshot(target)
	if err != nil {
		return "", fmt.Errorf("error loading previous rankings: %w", err)
	}

	entries, err := ComputeRankings(snap, ix, s.repo.GetROSRows(), previous, rankings.DefaultWeights)
	if err != nil {
		return "", fmt.Errorf("error computing rankings: %w", err)
	}

	if s.ActiveLeague() != target {
		return "", ErrStaleLeague
	}
	if err := s.store.SaveRankSnapshot(target, rankings.Snapshot(entries)); err != nil {
		slog.Error("Persisting rank snapshot", "league", target, "error", err)
	}

	names := teamNames(snap)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚡️ *Power Rankings — %s*\n\n", snap.League.Name))
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("%d. *%s* %s\n", e.Rank, names[e.RosterID], deltaLabel(e.Delta)))
		sb.WriteString(fmt.Sprintf("   Roster #%d · Record #%d · Last %d #%d\n",
			e.StrengthRank, e.StandingsRank, rollingWindow, e.RollingRank))
		sb.WriteString(fmt.Sprintf("   PF #%d · Schedule #%d\n", e.PointsForRank, e.ScheduleRank))
		sb.WriteString(fmt.Sprintf("   _%s_\n\n", e.Narrative))
	}
	return sb.String(), nil
}

func deltaLabel(delta *int) string {
	switch {
	case delta == nil:
		return "(—)"
	case *delta > 0:
		return fmt.Sprintf("(▲%d)", *delta)
	case *delta < 0:
		return fmt.Sprintf("(▼%d)", -*delta)
	default:
		return "(=)"
	}
}

func (s *FantasyService) GetStandings(ctx context.Context) (string, error) {
	snap, err := s.loadSnapshot(ctx, s.ActiveLeague())
	if err != nil {
		return "", err
	}

	ranks := rankings.StandingsRanks(snap.Rosters)
	views := TeamViews(snap)
	sort.Slice(views, func(i, j int) bool {
		return ranks[views[i].RosterID] < ranks[views[j].RosterID]
	})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏆 *Standings — %s*\n\n", snap.League.Name))
	for _, v := range views {
		you := ""
		if v.IsMine {
			you = " (You)"
		}
		sb.WriteString(fmt.Sprintf("%d. *%s*%s\n", ranks[v.RosterID], v.DisplayName, you))
		sb.WriteString(fmt.Sprintf("   Record: %d-%d-%d\n", v.Wins, v.Losses, v.Ties))
		sb.WriteString(fmt.Sprintf("   Points For: %.2f · Against: %.2f\n\n", v.PointsFor, v.PointsAgainst))
	}
	return sb.String(), nil
}

// GetScores pairs the current week's matchup entries head-to-head.
func (s *FantasyService) GetScores(ctx context.Context) (string, error) {
	target := s.ActiveLeague()
	snap, err := s.loadSnapshot(ctx, target)
	if err != nil {
		return "", err
	}
	matchups, err := s.api.GetMatchups(target, snap.Week)
	if err != nil {
		return "", fmt.Errorf("error fetching current scores: %w", err)
	}

	names := teamNames(snap)
	paired := make(map[int][]models.Matchup)
	var order []int
	for _, m := range matchups {
		if _, seen := paired[m.MatchupID]; !seen {
			order = append(order, m.MatchupID)
		}
		paired[m.MatchupID] = append(paired[m.MatchupID], m)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏈 *Week %d Scores — %s*\n\n", snap.Week, snap.League.Name))
	for _, id := range order {
		pair := paired[id]
		if len(pair) == 2 {
			sb.WriteString(fmt.Sprintf("*%s* %.2f — %.2f *%s*\n",
				names[pair[0].RosterID], pair[0].Points, pair[1].Points, names[pair[1].RosterID]))
		} else {
			for _, m := range pair {
				sb.WriteString(fmt.Sprintf("*%s* %.2f (no opponent)\n", names[m.RosterID], m.Points))
			}
		}
	}
	return sb.String(), nil
}

// WhoHas resolves a player name and reports which team holds the player.
func (s *FantasyService) WhoHas(ctx context.Context, playerName string) (string, error) {
	ix, err := s.ensureIndex()
	if err != nil {
		return "", fmt.Errorf("error building registry index: %w", err)
	}
	snap, err := s.loadSnapshot(ctx, s.ActiveLeague())
	if err != nil {
		return "", err
	}

	id, ok := ix.Resolve(playerName, registry.Hints{})
	if !ok {
		return fmt.Sprintf("🔍 No player found matching '%s'.", playerName), nil
	}
	rec, _ := ix.Record(id)

	agg := ownership.Build(snap.Rosters, snap.MyUserID, ix)
	names := teamNames(snap)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s* (%s - %s)\n", rec.Name, rec.Position, rec.Team))
	sb.WriteString("━━━━━━━━━━━━━━━━\n")
	if rid, owned := agg.RosterOf(id); owned {
		sb.WriteString(fmt.Sprintf("*%s*", names[rid]))
		if agg.IsMine(rid) {
			sb.WriteString(" (You)")
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("Free Agent\n")
	}

	if row, ok := rankings.ProjectionsByName(s.repo.GetROSRows())[strings.ToLower(rec.Name)]; ok {
		sb.WriteString(fmt.Sprintf("\nROS Rank: %d", row.Rank))
		if row.PosRank > 0 {
			sb.WriteString(fmt.Sprintf(" (%s%d)", row.Position, row.PosRank))
		}
		if row.PPG > 0 {
			sb.WriteString(fmt.Sprintf("\n%.1f PPG", row.PPG))
		}
	}
	return sb.String(), nil
}

// GetTeamRoster fuzzy-matches a team name and lists its roster with ROS
// projection decoration, grouped by position.
func (s *FantasyService) GetTeamRoster(ctx context.Context, teamName string) (string, error) {
	ix, err := s.ensureIndex()
	if err != nil {
		return "", fmt.Errorf("error building registry index: %w", err)
	}
	snap, err := s.loadSnapshot(ctx, s.ActiveLeague())
	if err != nil {
		return "", err
	}

	views := TeamViews(snap)
	var best *models.TeamView
	bestScore := -1.0
	for i, v := range views {
		distance := fuzzy.LevenshteinDistance(strings.ToLower(teamName), strings.ToLower(v.DisplayName))
		maxLen := float64(max(len(teamName), len(v.DisplayName)))
		similarity := 1 - float64(distance)/maxLen
		if similarity > teamMatchThreshold && similarity > bestScore {
			bestScore = similarity
			best = &views[i]
		}
	}
	if best == nil {
		return "", fmt.Errorf("team not found: %s", teamName)
	}

	var roster *models.Roster
	for i, r := range snap.Rosters {
		if r.RosterID == best.RosterID {
			roster = &snap.Rosters[i]
			break
		}
	}
	if roster == nil {
		return "", fmt.Errorf("roster %d not found", best.RosterID)
	}

	projByName := rankings.ProjectionsByName(s.repo.GetROSRows())
	grouped := make(map[string][]registry.Record)
	for _, pid := range roster.AllPlayers() {
		rec, ok := ix.Record(pid)
		if !ok {
			continue
		}
		pos := rec.Position
		if pos == "" {
			pos = "FLEX"
		}
		grouped[pos] = append(grouped[pos], rec)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 *%s's Roster*\n\n", best.DisplayName))
	for _, pos := range []string{"QB", "RB", "WR", "TE", "K", "DEF", "DST", "FLEX"} {
		recs := grouped[pos]
		if len(recs) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("*%s*\n", pos))
		for _, rec := range recs {
			line := fmt.Sprintf("▫️ %s", rec.Name)
			if row, ok := projByName[strings.ToLower(rec.Name)]; ok && row.Rank > 0 {
				line += fmt.Sprintf(" — ROS #%d", row.Rank)
				if row.Tier > 0 {
					line += fmt.Sprintf(", Tier %d", row.Tier)
				}
				if row.Bye > 0 {
					line += fmt.Sprintf(", Bye %d", row.Bye)
				}
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// GetUpgrades lists free-agent-pool players projected better than the worst
// starter at each position on the caller's own roster.
func (s *FantasyService) GetUpgrades(ctx context.Context) (string, error) {
	ix, err := s.ensureIndex()
	if err != nil {
		return "", fmt.Errorf("error building registry index: %w", err)
	}
	snap, err := s.loadSnapshot(ctx, s.ActiveLeague())
	if err != nil {
		return "", err
	}

	rosRows := s.repo.GetROSRows()
	if len(rosRows) == 0 {
		return "No ROS projections loaded. Upload a sheet and /reload first.", nil
	}

	var mine *models.Roster
	for i, r := range snap.Rosters {
		if snap.MyUserID != "" && r.OwnerID == snap.MyUserID {
			mine = &snap.Rosters[i]
			break
		}
	}
	if mine == nil {
		return "", errors.New("your roster was not found in this league")
	}

	projByName := rankings.ProjectionsByName(rosRows)

	// Worst (highest) positional rank among current starters, per position.
	worstByPos := make(map[string]int)
	for _, pid := range mine.Starters {
		rec, ok := ix.Record(pid)
		if !ok {
			continue
		}
		row, ok := projByName[strings.ToLower(rec.Name)]
		if !ok || row.PosRank <= 0 {
			continue
		}
		if row.PosRank > worstByPos[row.Position] {
			worstByPos[row.Position] = row.PosRank
		}
	}

	agg := ownership.Build(snap.Rosters, snap.MyUserID, ix)
	var candidates []models.ProjectionRow
	for _, row := range rosRows {
		worst, ok := worstByPos[row.Position]
		if !ok || row.PosRank <= 0 || row.PosRank >= worst {
			continue
		}
		status := agg.Status(row.Player, registry.Hints{Position: row.Position, Team: row.Team})
		if status == models.StatusMine {
			continue
		}
		candidates = append(candidates, row)
	}
	if len(candidates) == 0 {
		return "No obvious upgrade candidates based on your current starters.", nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return rankOrBottom(candidates[i].Rank) < rankOrBottom(candidates[j].Rank)
	})
	if len(candidates) > 15 {
		candidates = candidates[:15]
	}

	var sb strings.Builder
	sb.WriteString("📈 *Upgrade Candidates*\n\n")
	for _, row := range candidates {
		status := agg.Status(row.Player, registry.Hints{Position: row.Position, Team: row.Team})
		sb.WriteString(fmt.Sprintf("▫️ %s %s — ROS #%d (%s%d) [%s]\n",
			row.Position, row.Player, row.Rank, row.Position, row.PosRank, status))
	}
	return sb.String(), nil
}

// GetROSReport lists the top of the loaded ROS sheet with ownership badges.
func (s *FantasyService) GetROSReport(ctx context.Context) (string, error) {
	rosRows := s.repo.GetROSRows()
	if len(rosRows) == 0 {
		return "No ROS projections loaded. Upload a sheet and /reload first.", nil
	}

	ix, err := s.ensureIndex()
	if err != nil {
		return "", fmt.Errorf("error building registry index: %w", err)
	}
	snap, err := s.loadSnapshot(ctx, s.ActiveLeague())
	if err != nil {
		return "", err
	}
	agg := ownership.Build(snap.Rosters, snap.MyUserID, ix)

	sorted := make([]models.ProjectionRow, len(rosRows))
	copy(sorted, rosRows)
	sort.Slice(sorted, func(i, j int) bool {
		return rankOrBottom(sorted[i].Rank) < rankOrBottom(sorted[j].Rank)
	})
	if len(sorted) > 30 {
		sorted = sorted[:30]
	}

	var sb strings.Builder
	sb.WriteString("📊 *Rest-of-Season Rankings*\n\n")
	for _, row := range sorted {
		status := agg.Status(row.Player, registry.Hints{Position: row.Position, Team: row.Team})
		move := ""
		if row.Move != nil && *row.Move != 0 {
			move = " " + moveLabel(*row.Move)
		}
		sb.WriteString(fmt.Sprintf("%d. %s %s%s [%s]\n", row.Rank, row.Position, row.Player, move, status))
	}
	return sb.String(), nil
}

func moveLabel(move int) string {
	if move > 0 {
		return fmt.Sprintf("▲%d", move)
	}
	return fmt.Sprintf("▼%d", -move)
}

// GetWeekReport groups the loaded weekly sheet by position slot.
func (s *FantasyService) GetWeekReport() (string, error) {
	weekRows := s.repo.GetWeekRows()
	if len(weekRows) == 0 {
		return "No weekly projections loaded. Upload a sheet and /reload first.", nil
	}

	grouped := make(map[string][]models.WeekProjectionRow)
	for _, row := range weekRows {
		grouped[row.Group] = append(grouped[row.Group], row)
	}

	var sb strings.Builder
	sb.WriteString("🗓 *This Week's Projections*\n\n")
	for _, group := range []string{"QB", "RB", "WR", "TE", "DST", "FLEX"} {
		rows := grouped[group]
		if len(rows) == 0 {
			continue
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].ProjPoints > rows[j].ProjPoints })
		if len(rows) > 10 {
			rows = rows[:10]
		}

		sb.WriteString(fmt.Sprintf("*%s*\n", group))
		for _, row := range rows {
			line := fmt.Sprintf("▫️ %s", row.Player)
			if group == "FLEX" && row.Position != "" {
				line += fmt.Sprintf(" (%s)", row.Position)
			}
			if row.Opponent != "" {
				line += " vs " + row.Opponent
			}
			if row.ProjPoints > 0 {
				line += fmt.Sprintf(" — %.1f pts", row.ProjPoints)
			}
			if row.Matchup > 0 {
				line += fmt.Sprintf(", matchup %.0f/32", row.Matchup)
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// LoadROSFile ingests a ROS sheet, diffing rank movement against whatever
// upload it replaces, and persists the result.
func (s *FantasyService) LoadROSFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening ROS file: %w", err)
	}
	defer f.Close()

	rows, err := projections.ParseROS(f, s.repo.GetROSRows())
	if err != nil {
		return err
	}
	s.repo.SaveROSRows(rows)
	if err := s.store.SaveROSRows(rows); err != nil {
		slog.Error("Persisting ROS rows", "error", err)
	}
	slog.Info("Loaded ROS projections", "rows", len(rows), "path", path)
	return nil
}

func (s *FantasyService) LoadWeekFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening week file: %w", err)
	}
	defer f.Close()

	rows, err := projections.ParseWeek(f)
	if err != nil {
		return err
	}
	s.repo.SaveWeekRows(rows)
	slog.Info("Loaded weekly projections", "rows", len(rows), "path", path)
	return nil
}

// ReloadProjections re-reads whichever projection files are configured.
func (s *FantasyService) ReloadProjections() error {
	if s.storage.ROSCSVPath == "" && s.storage.WeekCSVPath == "" {
		return errors.New("no projection file paths configured")
	}
	if s.storage.ROSCSVPath != "" {
		if err := s.LoadROSFile(s.storage.ROSCSVPath); err != nil {
			return err
		}
	}
	if s.storage.WeekCSVPath != "" {
		if err := s.LoadWeekFile(s.storage.WeekCSVPath); err != nil {
			return err
		}
	}
	return nil
}

func teamNames(snap *Snapshot) map[int]string {
	names := make(map[int]string, len(snap.Rosters))
	for _, v := range TeamViews(snap) {
		names[v.RosterID] = v.DisplayName
	}
	return names
}

// Rows without an overall rank sort to the back.
func rankOrBottom(rank int) int {
	if rank <= 0 {
		return 1 << 30
	}
	return rank
}
