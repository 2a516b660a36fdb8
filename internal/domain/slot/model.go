package slot

import (
	"errors"
	"fmt"
	"time"
)

const (
	MinInnings = 1
	MaxInnings = 2
)

var (
	ErrInvalidInnings  = errors.New("invalid innings number")
	ErrInvalidPosition = errors.New("invalid batting position")
)

// Key addresses one slot of a match lineup.
type Key struct {
	Innings  int
	Position int
}

func (k Key) Validate() error {
	if k.Innings < MinInnings || k.Innings > MaxInnings {
		return fmt.Errorf("%w: %d", ErrInvalidInnings, k.Innings)
	}
	if k.Position < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPosition, k.Position)
	}
	return nil
}

func (k Key) Less(other Key) bool {
	if k.Innings != other.Innings {
		return k.Innings < other.Innings
	}
	return k.Position < other.Position
}

// Slot is a batting position in one innings of a match that a user can occupy.
type Slot struct {
	MatchID  string
	Innings  int
	Position int
}

func (s Slot) Key() Key {
	return Key{Innings: s.Innings, Position: s.Position}
}

// Assignment places a user on a slot.
type Assignment struct {
	ID        string
	MatchID   string
	UserID    string
	Innings   int
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a Assignment) Key() Key {
	return Key{Innings: a.Innings, Position: a.Position}
}

func (a Assignment) Validate() error {
	if a.MatchID == "" {
		return fmt.Errorf("assignment match id is required")
	}
	if a.UserID == "" {
		return fmt.Errorf("assignment user id is required")
	}
	return a.Key().Validate()
}
