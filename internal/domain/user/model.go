package user

// User is a participant in the competition.
type User struct {
	ID          string
	DisplayName string
	Active      bool
}
