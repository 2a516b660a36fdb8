package slot

import "context"

// Repository stores lineups and their occupants.
//
// Replace operations are atomic: callers observe either the previous set or
// the new one.
type Repository interface {
	// ReplaceSlots swaps the match lineup and drops assignments whose slot no
	// longer exists. It returns how many assignments were dropped.
	ReplaceSlots(ctx context.Context, matchID string, slots []Slot) (int, error)
	ListSlots(ctx context.Context, matchID string) ([]Slot, error)
	SlotExists(ctx context.Context, matchID string, key Key) (bool, error)

	ListAssignments(ctx context.Context, matchID string) ([]Assignment, error)
	ListAssignmentsByUser(ctx context.Context, matchID, userID string) ([]Assignment, error)
	ListAllAssignments(ctx context.Context) ([]Assignment, error)
	GetAssignment(ctx context.Context, assignmentID string) (Assignment, bool, error)
	GetAssignmentBySlot(ctx context.Context, matchID string, key Key) (Assignment, bool, error)

	ReplaceAssignments(ctx context.Context, matchID string, items []Assignment) error
	// UpsertAssignment writes by (match, innings, position), replacing the occupant.
	UpsertAssignment(ctx context.Context, item Assignment) (Assignment, error)
	DeleteAssignment(ctx context.Context, assignmentID string) (bool, error)
}
