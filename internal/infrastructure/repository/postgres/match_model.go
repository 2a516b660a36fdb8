package postgres

import "time"

type matchTableModel struct {
	ID          int64     `db:"id"`
	PublicID    string    `db:"public_id"`
	ExternalKey string    `db:"external_key"`
	Title       string    `db:"title"`
	Series      string    `db:"series"`
	TeamAName   string    `db:"team_a_name"`
	TeamAShort  string    `db:"team_a_short_name"`
	TeamBName   string    `db:"team_b_name"`
	TeamBShort  string    `db:"team_b_short_name"`
	Status      string    `db:"status"`
	StartTime   time.Time `db:"start_time"`
	Venue       string    `db:"venue"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type matchInsertModel struct {
	PublicID    string    `db:"public_id"`
	ExternalKey string    `db:"external_key"`
	Title       string    `db:"title"`
	Series      string    `db:"series"`
	TeamAName   string    `db:"team_a_name"`
	TeamAShort  string    `db:"team_a_short_name"`
	TeamBName   string    `db:"team_b_name"`
	TeamBShort  string    `db:"team_b_short_name"`
	Status      string    `db:"status"`
	StartTime   time.Time `db:"start_time"`
	Venue       string    `db:"venue"`
}
