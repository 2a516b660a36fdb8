package postgres

import "time"

type battingSlotTableModel struct {
	MatchID  string `db:"match_public_id"`
	Innings  int    `db:"innings"`
	Position int    `db:"position"`
}

type assignmentTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	MatchID   string    `db:"match_public_id"`
	UserID    string    `db:"user_id"`
	Innings   int       `db:"innings"`
	Position  int       `db:"position"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type assignmentInsertModel struct {
	PublicID string `db:"public_id"`
	MatchID  string `db:"match_public_id"`
	UserID   string `db:"user_id"`
	Innings  int    `db:"innings"`
	Position int    `db:"position"`
}
