package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/stuckabuc/huddlebot/internal/service"
)

type Scheduler struct {
	s              gocron.Scheduler
	fantasyService *service.FantasyService
	sendMessage    func(string) error
}

func NewScheduler(fantasyService *service.FantasyService, sendMessage func(string) error) (*Scheduler, error) {
	location, err := time.LoadLocation("America/Chicago") // CDT
	if err != nil {
		slog.Error("Failed to load location", "error", err)
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:              s,
		fantasyService: fantasyService,
		sendMessage:    sendMessage,
	}, nil
}

func (s *Scheduler) Start() error {
	var err error

	// Power rankings - Tuesday 7:30 CDT, after Monday night finalizes
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Tuesday), gocron.NewAtTimes(gocron.NewAtTime(7, 30, 0))),
		gocron.NewTask(s.sendPowerRankings),
	)
	if err != nil {
		return fmt.Errorf("failed to create power rankings job: %w", err)
	}

	// Current standings - Wednesday 7:30 CDT
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Wednesday), gocron.NewAtTimes(gocron.NewAtTime(7, 30, 0))),
		gocron.NewTask(s.sendStandings),
	)
	if err != nil {
		return fmt.Errorf("failed to create standings job: %w", err)
	}

	// Scoreboard - Sunday 15:00 and 19:00 CDT, Monday 7:30 CDT
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Sunday), gocron.NewAtTimes(gocron.NewAtTime(15, 0, 0), gocron.NewAtTime(19, 0, 0))),
		gocron.NewTask(s.sendScoreboard),
	)
	if err != nil {
		return fmt.Errorf("failed to create Sunday scoreboard job: %w", err)
	}
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Monday), gocron.NewAtTimes(gocron.NewAtTime(7, 30, 0))),
		gocron.NewTask(s.sendScoreboard),
	)
	if err != nil {
		return fmt.Errorf("failed to create Monday scoreboard job: %w", err)
	}

	// Weekly projections digest - Thursday 7:30 CDT, before the opener
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Thursday), gocron.NewAtTimes(gocron.NewAtTime(7, 30, 0))),
		gocron.NewTask(s.sendWeekProjections),
	)
	if err != nil {
		return fmt.Errorf("failed to create weekly projections job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) sendPowerRankings() {
	report, err := s.fantasyService.GetPowerRankings(context.Background())
	if err != nil {
		if errors.Is(err, service.ErrStaleLeague) {
			slog.Warn("Skipping power rankings send, league changed mid-run")
			return
		}
		slog.Error("Failed to compute power rankings", "error", err)
		return
	}
	s.sendMessage(report)
}

func (s *Scheduler) sendStandings() {
	standings, err := s.fantasyService.GetStandings(context.Background())
	if err != nil {
		slog.Error("Failed to get standings", "error", err)
		return
	}
	s.sendMessage(standings)
}

func (s *Scheduler) sendScoreboard() {
	scores, err := s.fantasyService.GetScores(context.Background())
	if err != nil {
		slog.Error("Failed to get current scores", "error", err)
		return
	}
	s.sendMessage(scores)
}

func (s *Scheduler) sendWeekProjections() {
	report, err := s.fantasyService.GetWeekReport()
	if err != nil {
		slog.Error("Failed to build weekly projections report", "error", err)
		return
	}
	s.sendMessage(report)
}
