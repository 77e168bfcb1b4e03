package repository

import "context"

// MembershipRepository looks up a user's standing in the required chat.
type MembershipRepository interface {
	// MemberStatus returns the raw membership status string for the user.
	MemberStatus(ctx context.Context, userID int64) (string, error)
}
