package usecase

import (
	"context"
	"log"

	"github.com/yourusername/telegram-gemini-bot/internal/domain/repository"
)

// MembershipUseCase gates bot features behind membership of the required chat.
type MembershipUseCase interface {
	// IsMember reports whether the user belongs to the required chat.
	IsMember(ctx context.Context, userID int64) bool
}

type membershipUseCase struct {
	members repository.MembershipRepository
}

// NewMembershipUseCase creates the membership gate.
func NewMembershipUseCase(members repository.MembershipRepository) MembershipUseCase {
	return &membershipUseCase{members: members}
}

// IsMember maps the raw membership status to a yes/no decision. Lookup
// failures count as "not a member": the gate fails closed.
func (u *membershipUseCase) IsMember(ctx context.Context, userID int64) bool {
	status, err := u.members.MemberStatus(ctx, userID)
	if err != nil {
		log.Printf("Membership lookup failed for user %d: %v", userID, err)
		return false
	}

	switch status {
	case "creator", "administrator", "member":
		return true
	default:
		return false
	}
}
