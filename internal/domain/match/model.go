package match

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a match.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusLive      Status = "live"
	StatusFinished  Status = "finished"
	StatusAbandoned Status = "abandoned"
)

var AllStatuses = map[Status]struct{}{
	StatusUpcoming:  {},
	StatusLive:      {},
	StatusFinished:  {},
	StatusAbandoned: {},
}

func ParseStatus(value string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	_, ok := AllStatuses[status]
	return status, ok
}

// Team is one side of a match as reported by the source.
type Team struct {
	Name      string
	ShortName string
}

// Match is a real cricket match tracked by the competition.
//
// ID is minted once on first sync and never changes. ExternalKey is the
// identifier the data source assigns.
type Match struct {
	ID          string
	ExternalKey string
	Title       string
	Series      string
	Teams       [2]Team
	Status      Status
	StartTime   time.Time
	Venue       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (m Match) Validate() error {
	if strings.TrimSpace(m.ExternalKey) == "" {
		return fmt.Errorf("match external key is required")
	}
	if _, ok := AllStatuses[m.Status]; !ok {
		return fmt.Errorf("unknown match status %q", m.Status)
	}
	if m.StartTime.IsZero() {
		return fmt.Errorf("match start time is required")
	}
	return nil
}

func (m Match) IsFinished() bool {
	return m.Status == StatusFinished
}

// Filter narrows List results. Zero values mean no filtering.
type Filter struct {
	Status Status
	Limit  int
}
