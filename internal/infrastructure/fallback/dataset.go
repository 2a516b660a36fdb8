package fallback

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/riskibarqy/cricket-slots/internal/domain/match"
	"github.com/riskibarqy/cricket-slots/internal/usecase"
	"gopkg.in/yaml.v3"
)

type fileFormat struct {
	Matches map[string]scorecardDoc `yaml:"matches"`
}

type scorecardDoc struct {
	RawStatus string       `yaml:"raw_status"`
	Status    string       `yaml:"status"`
	Innings   []inningsDoc `yaml:"innings"`
}

type inningsDoc struct {
	Number   int          `yaml:"number"`
	TeamName string       `yaml:"team_name"`
	Batting  []battingDoc `yaml:"batting"`
}

type battingDoc struct {
	PlayerID   string  `yaml:"player_id"`
	PlayerName string  `yaml:"player_name"`
	Dismissal  string  `yaml:"dismissal"`
	Runs       int     `yaml:"runs"`
	Balls      int     `yaml:"balls"`
	Fours      int     `yaml:"fours"`
	Sixes      int     `yaml:"sixes"`
	StrikeRate float64 `yaml:"strike_rate"`
	Out        bool    `yaml:"out"`
}

// Dataset serves synthetic scorecards keyed by external match key.
// It is read-only after load.
type Dataset struct {
	cards map[string]usecase.ExternalScorecard
}

func LoadFile(path string) (*Dataset, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("fallback dataset path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fallback dataset: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Dataset, error) {
	var doc fileFormat
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse fallback dataset: %w", err)
	}

	cards := make(map[string]usecase.ExternalScorecard, len(doc.Matches))
	for key, item := range doc.Matches {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		card, err := item.toScorecard(key)
		if err != nil {
			return nil, fmt.Errorf("fallback match %s: %w", key, err)
		}
		cards[key] = card
	}

	return &Dataset{cards: cards}, nil
}

func (d *Dataset) Scorecard(_ context.Context, externalKey string) (*usecase.ExternalScorecard, bool, error) {
	card, ok := d.cards[strings.TrimSpace(externalKey)]
	if !ok {
		return nil, false, nil
	}

	out := card
	out.Innings = make([]usecase.ExternalInnings, 0, len(card.Innings))
	for _, innings := range card.Innings {
		innings.Batting = append([]usecase.ExternalBattingEntry(nil), innings.Batting...)
		out.Innings = append(out.Innings, innings)
	}
	return &out, true, nil
}

func (d *Dataset) Keys() []string {
	out := make([]string, 0, len(d.cards))
	for key := range d.cards {
		out = append(out, key)
	}
	return out
}

func (doc scorecardDoc) toScorecard(key string) (usecase.ExternalScorecard, error) {
	status := match.StatusLive
	if strings.TrimSpace(doc.Status) != "" {
		parsed, ok := match.ParseStatus(doc.Status)
		if !ok {
			return usecase.ExternalScorecard{}, fmt.Errorf("unknown status %q", doc.Status)
		}
		status = parsed
	}

	card := usecase.ExternalScorecard{
		ExternalKey: key,
		RawStatus:   strings.TrimSpace(doc.RawStatus),
		Status:      status,
		Innings:     make([]usecase.ExternalInnings, 0, len(doc.Innings)),
	}
	for idx, innings := range doc.Innings {
		number := innings.Number
		if number <= 0 {
			number = idx + 1
		}
		out := usecase.ExternalInnings{
			Number:   number,
			TeamName: strings.TrimSpace(innings.TeamName),
			Batting:  make([]usecase.ExternalBattingEntry, 0, len(innings.Batting)),
		}
		for _, entry := range innings.Batting {
			if entry.Runs < 0 || entry.Balls < 0 {
				return usecase.ExternalScorecard{}, fmt.Errorf("innings %d: negative figures for %q", number, entry.PlayerName)
			}
			out.Batting = append(out.Batting, usecase.ExternalBattingEntry{
				ExternalPlayerID: strings.TrimSpace(entry.PlayerID),
				PlayerName:       strings.TrimSpace(entry.PlayerName),
				Dismissal:        strings.TrimSpace(entry.Dismissal),
				Runs:             entry.Runs,
				Balls:            entry.Balls,
				Fours:            entry.Fours,
				Sixes:            entry.Sixes,
				StrikeRate:       entry.StrikeRate,
				IsOut:            entry.Out,
			})
		}
		card.Innings = append(card.Innings, out)
	}
	return card, nil
}
