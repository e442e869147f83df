// Package projections normalizes uploaded ROS and weekly projection
// spreadsheets into the fixed row shapes the ranking engine consumes.
// Header aliasing and type coercion happen here, once, so downstream code
// never re-validates.
package projections

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stuckabuc/huddlebot/internal/models"
)

// Accepted header spellings per logical ROS field. Upload formats drift
// between projection sources; the alias table absorbs that here.
var rosAliases = map[string][]string{
	"rank":     {"rank", "overall", "ovr", "overall_rank"},
	"player":   {"player", "name", "player_name"},
	"position": {"position", "pos"},
	"pos_rank": {"pos_rank", "posrank", "position_rank", "prk"},
	"tier":     {"tier"},
	"move":     {"move", "change", "rank_change"},
	"team":     {"team", "tm"},
	"ros":      {"ros", "ros_sos", "sos"},
	"next4":    {"next4", "next_4", "next4_sos"},
	"ppg":      {"ppg", "points_per_game", "fpts_g"},
	"bye":      {"bye", "bye_week"},
}

var weekAliases = map[string][]string{
	"player":      {"player", "name", "player_name"},
	"position":    {"position", "pos"},
	"opponent":    {"opponent", "opp"},
	"proj_points": {"proj_points", "proj", "projection", "points"},
	"matchup":     {"matchup", "matchup_grade"},
	"tier":        {"tier"},
}

// ParseROS reads a rest-of-season upload. Rows without a player name are
// dropped. When a previous upload is supplied, each row's Move becomes the
// rank delta against it (positive = moved up); without one the sheet's own
// move column is kept as-is.
func ParseROS(r io.Reader, previous []models.ProjectionRow) ([]models.ProjectionRow, error) {
	header, records, err := readTable(r)
	if err != nil {
		return nil, fmt.Errorf("reading ROS upload: %w", err)
	}

	cols := make(map[string]int, len(rosAliases))
	for field, aliases := range rosAliases {
		cols[field] = columnIndex(header, aliases)
	}
	if cols["player"] < 0 {
		return nil, fmt.Errorf("ROS upload has no player column (header %v)", header)
	}

	prevRank := make(map[string]int, len(previous))
	for _, p := range previous {
		if p.Player != "" && p.Rank > 0 {
			key := strings.ToLower(p.Player)
			if _, ok := prevRank[key]; !ok {
				prevRank[key] = p.Rank
			}
		}
	}

	var rows []models.ProjectionRow
	for _, rec := range records {
		row := models.ProjectionRow{
			Rank:     toInt(field(rec, cols["rank"])),
			Player:   field(rec, cols["player"]),
			Position: strings.ToUpper(field(rec, cols["position"])),
			PosRank:  toInt(field(rec, cols["pos_rank"])),
			Tier:     toInt(field(rec, cols["tier"])),
			Team:     strings.ToUpper(field(rec, cols["team"])),
			ROS:      toFloat(field(rec, cols["ros"])),
			Next4:    toFloat(field(rec, cols["next4"])),
			PPG:      toFloat(field(rec, cols["ppg"])),
			Bye:      toInt(field(rec, cols["bye"])),
		}
		if row.Player == "" {
			continue
		}

		if len(previous) > 0 {
			if pr, ok := prevRank[strings.ToLower(row.Player)]; ok && row.Rank > 0 {
				move := pr - row.Rank
				row.Move = &move
			}
		} else if v := field(rec, cols["move"]); v != "" {
			if move, err := strconv.Atoi(v); err == nil {
				row.Move = &move
			}
		}

		rows = append(rows, row)
	}
	return rows, nil
}

// ParseWeek reads a weekly upload in either the flat one-row-per-player
// layout or the wide multi-position layout, flattening the latter into one
// row per player slot. Rows without a player name are dropped.
func ParseWeek(r io.Reader) ([]models.WeekProjectionRow, error) {
	header, records, err := readTable(r)
	if err != nil {
		return nil, fmt.Errorf("reading weekly upload: %w", err)
	}

	if segments := wideSegments(header); len(segments) > 0 {
		return flattenWide(segments, records), nil
	}

	cols := make(map[string]int, len(weekAliases))
	for f, aliases := range weekAliases {
		cols[f] = columnIndex(header, aliases)
	}
	if cols["player"] < 0 {
		return nil, fmt.Errorf("weekly upload has no player column (header %v)", header)
	}

	var rows []models.WeekProjectionRow
	for _, rec := range records {
		pos := strings.ToUpper(field(rec, cols["position"]))
		row := models.WeekProjectionRow{
			Player:     field(rec, cols["player"]),
			Group:      pos,
			Position:   pos,
			Opponent:   field(rec, cols["opponent"]),
			ProjPoints: toFloat(field(rec, cols["proj_points"])),
			Matchup:    toFloat(field(rec, cols["matchup"])),
			Tier:       toInt(field(rec, cols["tier"])),
		}
		if row.Player == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// segment is one position block of the wide weekly layout, e.g. the columns
// headed qb_player, qb_opponent, qb_proj, qb_matchup.
type segment struct {
	group    string
	player   int
	pos      int // FLEX blocks carry the resolved position alongside the name
	opponent int
	proj     int
	matchup  int
	tier     int
}

var positionGroups = map[string]bool{
	"QB": true, "RB": true, "WR": true, "TE": true, "DST": true, "FLEX": true,
}

// wideSegments detects the wide layout by "<group>_player" headers. Each
// such header opens a block; repeated groups (a second FLEX block) each get
// their own segment.
func wideSegments(header []string) []segment {
	var segments []segment
	for i, h := range header {
		prefix, suffix, ok := strings.Cut(h, "_")
		if !ok {
			continue
		}
		group := strings.ToUpper(prefix)
		if !positionGroups[group] {
			continue
		}
		if suffix == "player" || suffix == "name" {
			segments = append(segments, segment{
				group: group, player: i,
				pos: -1, opponent: -1, proj: -1, matchup: -1, tier: -1,
			})
			continue
		}
		if len(segments) == 0 {
			continue
		}
		seg := &segments[len(segments)-1]
		if seg.group != group {
			continue
		}
		switch suffix {
		case "pos", "position":
			seg.pos = i
		case "opponent", "opp":
			seg.opponent = i
		case "proj", "proj_points", "points":
			seg.proj = i
		case "matchup":
			seg.matchup = i
		case "tier":
			seg.tier = i
		}
	}
	return segments
}

func flattenWide(segments []segment, records [][]string) []models.WeekProjectionRow {
	var rows []models.WeekProjectionRow
	for _, rec := range records {
		for _, seg := range segments {
			name := field(rec, seg.player)
			if name == "" {
				continue
			}
			pos := seg.group
			if seg.group == "FLEX" {
				if resolved := strings.ToUpper(field(rec, seg.pos)); resolved != "" {
					pos = resolved
				}
			}
			rows = append(rows, models.WeekProjectionRow{
				Player:     name,
				Group:      seg.group,
				Position:   pos,
				Opponent:   field(rec, seg.opponent),
				ProjPoints: toFloat(field(rec, seg.proj)),
				Matchup:    toFloat(field(rec, seg.matchup)),
				Tier:       toInt(field(rec, seg.tier)),
			})
		}
	}
	return rows
}

func readTable(r io.Reader) (header []string, records [][]string, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("empty upload")
	}

	header = make([]string, len(all[0]))
	for i, h := range all[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return header, all[1:], nil
}

func columnIndex(header []string, aliases []string) int {
	for _, alias := range aliases {
		for i, h := range header {
			if h == alias {
				return i
			}
		}
	}
	return -1
}

func field(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

func toInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func toFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
