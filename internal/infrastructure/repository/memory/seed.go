package memory

import "github.com/riskibarqy/cricket-slots/internal/domain/user"

// SeedUsers returns the participant directory used when running without a database.
func SeedUsers() []user.User {
	return []user.User{
		{ID: "u-arjun", DisplayName: "Arjun", Active: true},
		{ID: "u-bella", DisplayName: "Bella", Active: true},
		{ID: "u-chirag", DisplayName: "Chirag", Active: true},
		{ID: "u-dana", DisplayName: "Dana", Active: true},
		{ID: "u-eshan", DisplayName: "Eshan", Active: true},
		{ID: "u-farah", DisplayName: "Farah", Active: false},
	}
}
