package settlement

import "time"

// DefaultStake is the amount each loser pays the winner of a match.
const DefaultStake = 50

// Participant is a user holding at least one slot in a match, with their totals.
type Participant struct {
	UserID     string
	TotalRuns  int
	TotalBalls int
}

// MatchResult is the settlement input for one finished match.
type MatchResult struct {
	MatchID      string
	StartTime    time.Time
	Participants []Participant
}

// MatchOutcome is the settled result of one match.
type MatchOutcome struct {
	MatchID      string
	WeekStart    time.Time
	WinnerUserID string
	Participants []Participant
	// PnL holds the per-user profit and loss. Empty when there is no winner.
	PnL map[string]int
}

func (o MatchOutcome) HasWinner() bool {
	return o.WinnerUserID != ""
}

// LedgerEntry aggregates what a user is owed by and owes to one counterparty.
type LedgerEntry struct {
	CounterpartyID string
	Receivable     int
	Payable        int
}

func (e LedgerEntry) Net() int {
	return e.Receivable - e.Payable
}

// WeeklyStats is one user's aggregate over one settlement week.
type WeeklyStats struct {
	UserID     string
	WeekStart  time.Time
	WeekEnd    time.Time
	Runs       int
	Balls      int
	Matches    int
	Wins       int
	Losses     int
	NetWorth   int
	Average    float64
	StrikeRate float64
	Ledger     []LedgerEntry
}
