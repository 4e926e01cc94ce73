package model

import "time"

// User represents a credential record as stored in the `users` table.
// PasswordHash never leaves the repository/service boundary; handlers
// expose users through service.UserProfile instead.
//
// PendingToken holds the single outstanding short-lived code used to
// authorize either email verification or a password reset. It is nil when
// no flow is outstanding; whichever flow issued a token most recently owns
// the slot.
type User struct {
	ID            uint64
	FirstName     string
	LastName      string
	Email         string // unique, stored as given (no case folding)
	PhoneNumber   string
	PasswordHash  string
	AgreedToTerms bool
	Verified      bool
	PendingToken  *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
