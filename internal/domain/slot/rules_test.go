package slot

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestBuildLineup(t *testing.T) {
	t.Parallel()

	slots, err := BuildLineup("m-1", 2, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 6 {
		t.Fatalf("unexpected slot count got=%d want=6", len(slots))
	}
	if slots[0].Key() != (Key{Innings: 1, Position: 1}) || slots[5].Key() != (Key{Innings: 2, Position: 3}) {
		t.Fatalf("unexpected slot order: %+v", slots)
	}

	if _, err := BuildLineup("m-1", 3, 3); !errors.Is(err, ErrInvalidInnings) {
		t.Fatalf("expected ErrInvalidInnings, got %v", err)
	}
	if _, err := BuildLineup("m-1", 2, 0); !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
}

func TestPair_MoreUsersThanSlots(t *testing.T) {
	t.Parallel()

	slots, _ := BuildLineup("m-1", 1, 3)
	users := []string{"u1", "u2", "u3", "u4", "u5"}
	rng := rand.New(rand.NewPCG(7, 11))

	out := Pair(slots, users, rng.Shuffle)
	if len(out) != 3 {
		t.Fatalf("unexpected assignment count got=%d want=3", len(out))
	}

	seenUsers := map[string]struct{}{}
	seenSlots := map[Key]struct{}{}
	for _, item := range out {
		if _, dup := seenUsers[item.UserID]; dup {
			t.Fatalf("user %s assigned twice", item.UserID)
		}
		if _, dup := seenSlots[item.Key()]; dup {
			t.Fatalf("slot %+v assigned twice", item.Key())
		}
		seenUsers[item.UserID] = struct{}{}
		seenSlots[item.Key()] = struct{}{}
		if item.MatchID != "m-1" {
			t.Fatalf("unexpected match id %q", item.MatchID)
		}
	}

	if users[0] != "u1" || users[4] != "u5" {
		t.Fatalf("input users were mutated: %v", users)
	}
}

func TestPair_FewerUsersThanSlots(t *testing.T) {
	t.Parallel()

	slots, _ := BuildLineup("m-1", 2, 5)
	identity := func(int, func(i, j int)) {}

	out := Pair(slots, []string{"u1", "u2"}, identity)
	if len(out) != 2 {
		t.Fatalf("unexpected assignment count got=%d want=2", len(out))
	}
	if out[0].UserID != "u1" || out[0].Key() != (Key{Innings: 1, Position: 1}) {
		t.Fatalf("unexpected first pair: %+v", out[0])
	}
	if out[1].UserID != "u2" || out[1].Key() != (Key{Innings: 1, Position: 2}) {
		t.Fatalf("unexpected second pair: %+v", out[1])
	}
}

func TestPair_Empty(t *testing.T) {
	t.Parallel()

	if out := Pair(nil, []string{"u1"}, rand.Shuffle); len(out) != 0 {
		t.Fatalf("expected no assignments, got %d", len(out))
	}
}

func TestKeyValidate(t *testing.T) {
	t.Parallel()

	if err := (Key{Innings: 1, Position: 1}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Key{Innings: 0, Position: 1}).Validate(); !errors.Is(err, ErrInvalidInnings) {
		t.Fatalf("expected ErrInvalidInnings, got %v", err)
	}
	if err := (Key{Innings: 2, Position: -1}).Validate(); !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
}
