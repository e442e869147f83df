package models

// TeamView is the display projection of a roster: resolved team name,
// record, and whether the roster belongs to the configured user.
type TeamView struct {
	RosterID      int
	OwnerID       string
	DisplayName   string
	IsMine        bool
	Wins          int
	Losses        int
	Ties          int
	PointsFor     float64
	PointsAgainst float64
}

// OwnershipStatus classifies a player name relative to the active league.
type OwnershipStatus int

const (
	StatusUnknown OwnershipStatus = iota // name did not resolve in the registry
	StatusFreeAgent
	StatusMine
	StatusOther
)

func (s OwnershipStatus) String() string {
	switch s {
	case StatusFreeAgent:
		return "FA"
	case StatusMine:
		return "MINE"
	case StatusOther:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}

// ProjectionRow is one normalized row of a rest-of-season projection upload.
// Positive-range numeric fields use zero as "not provided"; Move is a signed
// delta, so absence is a nil pointer rather than zero.
type ProjectionRow struct {
	Rank     int    // overall rank, lower = better, 0 = none
	Player   string // free-text name, required
	Position string // upper-cased
	PosRank  int    // positional rank, 0 = none
	Tier     int    // 0 = none
	Move     *int   // rank change vs previous upload, nil = unknown
	Team     string
	ROS      float64 // rest-of-season schedule difficulty 1-32, 0 = none
	Next4    float64 // next-4-games schedule difficulty 1-32, 0 = none
	PPG      float64 // points per game, 0 = none
	Bye      int     // bye week, 0 = none
}

// WeekProjectionRow is one player slot flattened out of a weekly projection
// upload. Group is the slot's position group (QB/RB/WR/TE/DST/FLEX);
// Position is the resolved position, which for FLEX slots comes from an
// adjacent column.
type WeekProjectionRow struct {
	Player     string
	Group      string
	Position   string
	Opponent   string
	ProjPoints float64 // 0 = none
	Matchup    float64 // matchup difficulty 1-32, 0 = none
	Tier       int     // 0 = none
}

// PowerRankEntry is the composite ranking output for one roster.
type PowerRankEntry struct {
	RosterID      int
	Rank          int // final composite rank, 1 = best
	PointsForRank int
	StandingsRank int
	RollingRank   int
	StrengthRank  int
	ScheduleRank  int
	Delta         *int // previous rank minus current; nil when no prior snapshot
	Narrative     string
}
