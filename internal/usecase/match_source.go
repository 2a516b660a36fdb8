package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/cricket-slots/internal/domain/match"
)

// MatchSource reads match data from the upstream scoreboard site.
//
// Lookups by external key return nil without error when the page is absent
// or cannot be parsed.
type MatchSource interface {
	ListMatches(ctx context.Context) ([]ExternalMatchSummary, error)
	MatchInfo(ctx context.Context, externalKey string) (*ExternalMatchInfo, error)
	FullScorecard(ctx context.Context, externalKey string) (*ExternalScorecard, error)
	Squads(ctx context.Context, externalKey string) (*ExternalSquads, error)
}

// ScorecardFallback serves synthetic scorecards for development matches.
type ScorecardFallback interface {
	Scorecard(ctx context.Context, externalKey string) (*ExternalScorecard, bool, error)
}

type ExternalTeam struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

type ExternalMatchSummary struct {
	ExternalKey string          `json:"external_key"`
	Title       string          `json:"title"`
	Series      string          `json:"series"`
	Teams       [2]ExternalTeam `json:"teams"`
	RawStatus   string          `json:"raw_status"`
	Status      match.Status    `json:"status"`
	StartTime   *time.Time      `json:"start_time,omitempty"`
	Venue       string          `json:"venue"`
}

type ExternalMatchInfo struct {
	ExternalKey string          `json:"external_key"`
	Title       string          `json:"title"`
	Series      string          `json:"series"`
	Teams       [2]ExternalTeam `json:"teams"`
	RawStatus   string          `json:"raw_status"`
	Status      match.Status    `json:"status"`
	StartTime   *time.Time      `json:"start_time,omitempty"`
	Venue       string          `json:"venue"`
	Toss        string          `json:"toss"`
	Umpires     []string        `json:"umpires"`
	Referee     string          `json:"referee"`
}

type ExternalBattingEntry struct {
	ExternalPlayerID string  `json:"external_player_id"`
	PlayerName       string  `json:"player_name"`
	Dismissal        string  `json:"dismissal"`
	Runs             int     `json:"runs"`
	Balls            int     `json:"balls"`
	Fours            int     `json:"fours"`
	Sixes            int     `json:"sixes"`
	StrikeRate       float64 `json:"strike_rate"`
	IsOut            bool    `json:"is_out"`
}

type ExternalInnings struct {
	Number   int                    `json:"number"`
	TeamName string                 `json:"team_name"`
	Batting  []ExternalBattingEntry `json:"batting"`
}

type ExternalScorecard struct {
	ExternalKey string            `json:"external_key"`
	RawStatus   string            `json:"raw_status"`
	Status      match.Status      `json:"status"`
	Innings     []ExternalInnings `json:"innings"`
}

type ExternalSquadPlayer struct {
	ExternalPlayerID string `json:"external_player_id"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	Captain          bool   `json:"captain"`
	WicketKeeper     bool   `json:"wicket_keeper"`
}

type ExternalSquad struct {
	TeamName  string                `json:"team_name"`
	PlayingXI []ExternalSquadPlayer `json:"playing_xi"`
	Bench     []ExternalSquadPlayer `json:"bench"`
}

type ExternalSquads struct {
	ExternalKey string          `json:"external_key"`
	Teams       []ExternalSquad `json:"teams"`
}
