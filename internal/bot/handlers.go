package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stuckabuc/huddlebot/internal/service"
)

type Handler struct {
	fantasyService *service.FantasyService
}

func NewHandler(fantasyService *service.FantasyService) *Handler {
	return &Handler{fantasyService: fantasyService}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := update.Message.CommandArguments()
	msg.ParseMode = "Markdown"

	switch command {
	case "start":
		msg.Text = "Welcome to HuddleBot! Use /help to see available commands."
	case "help":
		msg.Text = "Available commands:\n" +
			"/rankings - Power rankings with week-over-week movement\n" +
			"/standings - League standings\n" +
			"/scores - Current week scores\n" +
			"/team <team> - View a team's roster with ROS outlook\n" +
			"/whohas <player> - Check which team has a player\n" +
			"/upgrades - Free agents projected above your worst starters\n" +
			"/ros - Rest-of-season rankings with ownership\n" +
			"/week - This week's projections by position\n" +
			"/league [id] - List configured leagues or switch the active one\n" +
			"/reload - Re-read the projection files"
	case "rankings":
		h.handleRankings(ctx, &msg)
	case "standings":
		h.handleStandings(ctx, &msg)
	case "scores":
		h.handleScores(ctx, &msg)
	case "team":
		h.handleTeam(ctx, &msg, args)
	case "whohas":
		h.handleWhoHas(ctx, &msg, args)
	case "upgrades":
		h.handleUpgrades(ctx, &msg)
	case "ros":
		h.handleROS(ctx, &msg)
	case "week":
		h.handleWeek(&msg)
	case "league":
		h.handleLeague(&msg, args)
	case "reload":
		h.handleReload(&msg)
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) handleRankings(ctx context.Context, msg *tgbotapi.MessageConfig) {
	report, err := h.fantasyService.GetPowerRankings(ctx)
	switch {
	case errors.Is(err, service.ErrStaleLeague):
		msg.Text = "League changed mid-computation, try again."
	case err != nil:
		msg.Text = fmt.Sprintf("Error computing power rankings: %v", err)
	default:
		msg.Text = report
	}
}

func (h *Handler) handleStandings(ctx context.Context, msg *tgbotapi.MessageConfig) {
	standings, err := h.fantasyService.GetStandings(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching standings: %v", err)
	} else {
		msg.Text = standings
	}
}

func (h *Handler) handleScores(ctx context.Context, msg *tgbotapi.MessageConfig) {
	scores, err := h.fantasyService.GetScores(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching scores: %v", err)
	} else {
		msg.Text = scores
	}
}

func (h *Handler) handleTeam(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide a team name. Usage: /team <team name>"
		return
	}
	result, err := h.fantasyService.GetTeamRoster(ctx, args)
	if err != nil {
		msg.Text = fmt.Sprintf("Error getting team roster: %v", err)
	} else {
		msg.Text = result
	}
}

func (h *Handler) handleWhoHas(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide a player name. Usage: /whohas <player name>"
		return
	}
	result, err := h.fantasyService.WhoHas(ctx, args)
	if err != nil {
		msg.Text = fmt.Sprintf("Error checking who has player: %v", err)
	} else {
		msg.Text = result
	}
}

func (h *Handler) handleUpgrades(ctx context.Context, msg *tgbotapi.MessageConfig) {
	report, err := h.fantasyService.GetUpgrades(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error finding upgrade candidates: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleROS(ctx context.Context, msg *tgbotapi.MessageConfig) {
	report, err := h.fantasyService.GetROSReport(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error building ROS report: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleWeek(msg *tgbotapi.MessageConfig) {
	report, err := h.fantasyService.GetWeekReport()
	if err != nil {
		msg.Text = fmt.Sprintf("Error building weekly report: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleLeague(msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		result, err := h.fantasyService.ListLeagues()
		if err != nil {
			msg.Text = fmt.Sprintf("Error listing leagues: %v", err)
		} else {
			msg.Text = result
		}
		return
	}
	if err := h.fantasyService.SetActiveLeague(strings.TrimSpace(args)); err != nil {
		msg.Text = fmt.Sprintf("Error switching league: %v", err)
	} else {
		msg.Text = "Active league switched. Rankings and reports now target it."
	}
}

func (h *Handler) handleReload(msg *tgbotapi.MessageConfig) {
	if err := h.fantasyService.ReloadProjections(); err != nil {
		msg.Text = fmt.Sprintf("Error reloading projections: %v", err)
	} else {
		msg.Text = "Projections reloaded."
	}
}
