package postgres

import "time"

type slotScoreTableModel struct {
	MatchID   string    `db:"match_public_id"`
	Innings   int       `db:"innings"`
	Position  int       `db:"position"`
	Runs      int       `db:"runs"`
	Balls     int       `db:"balls"`
	Fours     int       `db:"fours"`
	Sixes     int       `db:"sixes"`
	IsOut     bool      `db:"is_out"`
	UpdatedAt time.Time `db:"updated_at"`
}

type slotScoreInsertModel struct {
	MatchID  string `db:"match_public_id"`
	Innings  int    `db:"innings"`
	Position int    `db:"position"`
	Runs     int    `db:"runs"`
	Balls    int    `db:"balls"`
	Fours    int    `db:"fours"`
	Sixes    int    `db:"sixes"`
	IsOut    bool   `db:"is_out"`
}

type slotResolutionTableModel struct {
	MatchID          string    `db:"match_public_id"`
	Innings          int       `db:"innings"`
	Position         int       `db:"position"`
	ExternalPlayerID string    `db:"external_player_id"`
	PlayerName       string    `db:"player_name"`
	Dismissal        string    `db:"dismissal"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type slotResolutionInsertModel struct {
	MatchID          string `db:"match_public_id"`
	Innings          int    `db:"innings"`
	Position         int    `db:"position"`
	ExternalPlayerID string `db:"external_player_id"`
	PlayerName       string `db:"player_name"`
	Dismissal        string `db:"dismissal"`
}

type userMatchStatsTableModel struct {
	MatchID    string    `db:"match_public_id"`
	UserID     string    `db:"user_id"`
	TotalRuns  int       `db:"total_runs"`
	TotalBalls int       `db:"total_balls"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type userMatchStatsInsertModel struct {
	MatchID    string `db:"match_public_id"`
	UserID     string `db:"user_id"`
	TotalRuns  int    `db:"total_runs"`
	TotalBalls int    `db:"total_balls"`
}
