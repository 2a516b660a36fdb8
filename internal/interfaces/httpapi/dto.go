package httpapi

import (
	"time"

	"github.com/riskibarqy/cricket-slots/internal/domain/match"
	"github.com/riskibarqy/cricket-slots/internal/domain/settlement"
	"github.com/riskibarqy/cricket-slots/internal/domain/slot"
	"github.com/riskibarqy/cricket-slots/internal/usecase"
)

type teamDTO struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name,omitempty"`
}

type matchDTO struct {
	ID          string    `json:"id"`
	ExternalKey string    `json:"external_key"`
	Title       string    `json:"title"`
	Series      string    `json:"series,omitempty"`
	Teams       []teamDTO `json:"teams"`
	Status      string    `json:"status"`
	StartTime   string    `json:"start_time"`
	Venue       string    `json:"venue,omitempty"`
}

type slotDTO struct {
	MatchID  string `json:"match_id"`
	Innings  int    `json:"innings"`
	Position int    `json:"position"`
}

type assignmentDTO struct {
	ID        string `json:"id"`
	MatchID   string `json:"match_id"`
	UserID    string `json:"user_id"`
	Innings   int    `json:"innings"`
	Position  int    `json:"position"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type ledgerEntryDTO struct {
	CounterpartyID string `json:"counterparty_id"`
	Receivable     int    `json:"receivable"`
	Payable        int    `json:"payable"`
	Net            int    `json:"net"`
}

type weeklyStatsDTO struct {
	WeekStart  string           `json:"week_start"`
	WeekEnd    string           `json:"week_end"`
	Runs       int              `json:"runs"`
	Balls      int              `json:"balls"`
	Matches    int              `json:"matches"`
	Wins       int              `json:"wins"`
	Losses     int              `json:"losses"`
	NetWorth   int              `json:"net_worth"`
	Average    float64          `json:"average"`
	StrikeRate float64          `json:"strike_rate"`
	Ledger     []ledgerEntryDTO `json:"ledger"`
}

type weeklyReportDTO struct {
	UserID      string           `json:"user_id"`
	DisplayName string           `json:"display_name"`
	NetWorth    int              `json:"net_worth"`
	Wins        int              `json:"wins"`
	Losses      int              `json:"losses"`
	Matches     int              `json:"matches"`
	Weeks       []weeklyStatsDTO `json:"weeks"`
}

type initializeSlotsRequest struct {
	InningsCount        int `json:"innings_count" validate:"omitempty,min=1,max=2"`
	PositionsPerInnings int `json:"positions_per_innings" validate:"required,min=1"`
}

type assignUserRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Innings  int    `json:"innings" validate:"required,min=1,max=2"`
	Position int    `json:"position" validate:"required,min=1"`
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}

func matchToDTO(item match.Match) matchDTO {
	teams := make([]teamDTO, 0, len(item.Teams))
	for _, team := range item.Teams {
		if team.Name == "" && team.ShortName == "" {
			continue
		}
		teams = append(teams, teamDTO{Name: team.Name, ShortName: team.ShortName})
	}

	return matchDTO{
		ID:          item.ID,
		ExternalKey: item.ExternalKey,
		Title:       item.Title,
		Series:      item.Series,
		Teams:       teams,
		Status:      string(item.Status),
		StartTime:   formatTime(item.StartTime),
		Venue:       item.Venue,
	}
}

func slotsToDTO(items []slot.Slot) []slotDTO {
	out := make([]slotDTO, 0, len(items))
	for _, item := range items {
		out = append(out, slotDTO{MatchID: item.MatchID, Innings: item.Innings, Position: item.Position})
	}
	return out
}

func assignmentToDTO(item slot.Assignment) assignmentDTO {
	return assignmentDTO{
		ID:        item.ID,
		MatchID:   item.MatchID,
		UserID:    item.UserID,
		Innings:   item.Innings,
		Position:  item.Position,
		CreatedAt: formatTime(item.CreatedAt),
		UpdatedAt: formatTime(item.UpdatedAt),
	}
}

func weeklyStatsToDTO(item settlement.WeeklyStats) weeklyStatsDTO {
	ledger := make([]ledgerEntryDTO, 0, len(item.Ledger))
	for _, entry := range item.Ledger {
		ledger = append(ledger, ledgerEntryDTO{
			CounterpartyID: entry.CounterpartyID,
			Receivable:     entry.Receivable,
			Payable:        entry.Payable,
			Net:            entry.Net(),
		})
	}

	return weeklyStatsDTO{
		WeekStart:  formatTime(item.WeekStart),
		WeekEnd:    formatTime(item.WeekEnd),
		Runs:       item.Runs,
		Balls:      item.Balls,
		Matches:    item.Matches,
		Wins:       item.Wins,
		Losses:     item.Losses,
		NetWorth:   item.NetWorth,
		Average:    item.Average,
		StrikeRate: item.StrikeRate,
		Ledger:     ledger,
	}
}

func weeklyReportToDTO(report usecase.UserWeeklyReport) weeklyReportDTO {
	weeks := make([]weeklyStatsDTO, 0, len(report.Weeks))
	for _, week := range report.Weeks {
		weeks = append(weeks, weeklyStatsToDTO(week))
	}

	return weeklyReportDTO{
		UserID:      report.UserID,
		DisplayName: report.DisplayName,
		NetWorth:    report.NetWorth,
		Wins:        report.Wins,
		Losses:      report.Losses,
		Matches:     report.Matches,
		Weeks:       weeks,
	}
}
