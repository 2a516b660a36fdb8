package settlement

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var ErrInvalidStake = errors.New("invalid stake")

const weekLength = 7 * 24 * time.Hour

// WeekStart returns the most recent Friday 00:00 in loc at or before t.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	back := (int(local.Weekday()) - int(time.Friday) + 7) % 7
	day := local.AddDate(0, 0, -back)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
}

// DetermineWinner picks the highest run total, then the fewest balls, then the
// smallest user id. There is no winner with fewer than two participants.
func DetermineWinner(participants []Participant) (string, bool) {
	distinct := dedupeParticipants(participants)
	if len(distinct) < 2 {
		return "", false
	}

	best := distinct[0]
	for _, item := range distinct[1:] {
		if beats(item, best) {
			best = item
		}
	}
	return best.UserID, true
}

func beats(a, b Participant) bool {
	if a.TotalRuns != b.TotalRuns {
		return a.TotalRuns > b.TotalRuns
	}
	if a.TotalBalls != b.TotalBalls {
		return a.TotalBalls < b.TotalBalls
	}
	return a.UserID < b.UserID
}

// SettleMatch applies the zero-sum payout: the winner gains (N-1)*stake and
// every other participant loses stake.
func SettleMatch(result MatchResult, stake int, loc *time.Location) (MatchOutcome, error) {
	if stake <= 0 {
		return MatchOutcome{}, fmt.Errorf("%w: %d", ErrInvalidStake, stake)
	}

	participants := dedupeParticipants(result.Participants)
	out := MatchOutcome{
		MatchID:      result.MatchID,
		WeekStart:    WeekStart(result.StartTime, loc),
		Participants: participants,
		PnL:          map[string]int{},
	}

	winner, ok := DetermineWinner(participants)
	if !ok {
		return out, nil
	}

	out.WinnerUserID = winner
	for _, item := range participants {
		if item.UserID == winner {
			out.PnL[item.UserID] = (len(participants) - 1) * stake
			continue
		}
		out.PnL[item.UserID] = -stake
	}
	return out, nil
}

// BuildWeeklyStats groups settled matches into per-user weeks, newest week first.
func BuildWeeklyStats(outcomes []MatchOutcome, stake int) []WeeklyStats {
	type bucketKey struct {
		userID string
		week   int64
	}

	buckets := make(map[bucketKey]*WeeklyStats)
	ledgers := make(map[bucketKey]map[string]*LedgerEntry)

	bucketFor := func(userID string, weekStart time.Time) (*WeeklyStats, map[string]*LedgerEntry) {
		key := bucketKey{userID: userID, week: weekStart.Unix()}
		stats, ok := buckets[key]
		if !ok {
			stats = &WeeklyStats{
				UserID:    userID,
				WeekStart: weekStart,
				WeekEnd:   weekStart.Add(weekLength),
			}
			buckets[key] = stats
			ledgers[key] = make(map[string]*LedgerEntry)
		}
		return stats, ledgers[key]
	}

	for _, outcome := range outcomes {
		for _, participant := range outcome.Participants {
			stats, ledger := bucketFor(participant.UserID, outcome.WeekStart)
			stats.Runs += participant.TotalRuns
			stats.Balls += participant.TotalBalls
			stats.Matches++
			if !outcome.HasWinner() {
				continue
			}

			stats.NetWorth += outcome.PnL[participant.UserID]
			if participant.UserID == outcome.WinnerUserID {
				stats.Wins++
				for _, other := range outcome.Participants {
					if other.UserID == participant.UserID {
						continue
					}
					entry := ledgerEntry(ledger, other.UserID)
					entry.Receivable += stake
				}
				continue
			}

			stats.Losses++
			entry := ledgerEntry(ledger, outcome.WinnerUserID)
			entry.Payable += stake
		}
	}

	out := make([]WeeklyStats, 0, len(buckets))
	for key, stats := range buckets {
		if stats.Matches > 0 {
			stats.Average = float64(stats.Runs) / float64(stats.Matches)
		}
		if stats.Balls > 0 {
			stats.StrikeRate = float64(stats.Runs) / float64(stats.Balls) * 100
		}

		entries := make([]LedgerEntry, 0, len(ledgers[key]))
		for _, entry := range ledgers[key] {
			entries = append(entries, *entry)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].CounterpartyID < entries[j].CounterpartyID })
		stats.Ledger = entries

		out = append(out, *stats)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].WeekStart.Equal(out[j].WeekStart) {
			return out[i].WeekStart.After(out[j].WeekStart)
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

func ledgerEntry(ledger map[string]*LedgerEntry, counterpartyID string) *LedgerEntry {
	entry, ok := ledger[counterpartyID]
	if !ok {
		entry = &LedgerEntry{CounterpartyID: counterpartyID}
		ledger[counterpartyID] = entry
	}
	return entry
}

// dedupeParticipants keeps the first row per user, ordered by user id.
func dedupeParticipants(items []Participant) []Participant {
	seen := make(map[string]struct{}, len(items))
	out := make([]Participant, 0, len(items))
	for _, item := range items {
		if item.UserID == "" {
			continue
		}
		if _, ok := seen[item.UserID]; ok {
			continue
		}
		seen[item.UserID] = struct{}{}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}
