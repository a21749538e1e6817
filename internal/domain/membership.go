package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Membership transition errors. All wrap ErrMembershipConflict so the
// boundary layer can map the whole family to a single conflict response.
// Re-invoking a completed transition fails with a conflict rather than
// silently succeeding, which keeps duplicate client retries from corrupting
// the membership sets.
var (
	// ErrAlreadyInvited is returned when inviting a user who already holds
	// a pending invite.
	ErrAlreadyInvited = fmt.Errorf("%w: user already invited", ErrMembershipConflict)

	// ErrAlreadyMember is returned when inviting or accepting a user who is
	// already an accepted member (or the board owner).
	ErrAlreadyMember = fmt.Errorf("%w: user already a member", ErrMembershipConflict)

	// ErrNotInvited is returned when accepting or declining without a
	// pending invite.
	ErrNotInvited = fmt.Errorf("%w: user has no pending invite", ErrMembershipConflict)

	// ErrNotMember is returned when removing a user who is not an accepted
	// member.
	ErrNotMember = fmt.Errorf("%w: user is not a member", ErrMembershipConflict)
)

// MembershipState is the position of a (board, user) pair in the invite
// lifecycle. A user occupies exactly one state at a time.
type MembershipState string

const (
	MembershipNone     MembershipState = "none"
	MembershipInvited  MembershipState = "invited"
	MembershipAccepted MembershipState = "accepted"
)

// MembershipOf returns the user's current membership state on the board.
// The owner is reported as accepted; ownership subsumes membership.
func (b *Board) MembershipOf(userID uuid.UUID) MembershipState {
	if userID == b.OwnerID || containsID(b.Members, userID) {
		return MembershipAccepted
	}
	if containsID(b.Invited, userID) {
		return MembershipInvited
	}
	return MembershipNone
}

// Invite moves the user from none to invited.
func (b *Board) Invite(userID uuid.UUID) error {
	switch b.MembershipOf(userID) {
	case MembershipInvited:
		return ErrAlreadyInvited
	case MembershipAccepted:
		return ErrAlreadyMember
	}
	b.Invited = append(b.Invited, userID)
	b.touch()
	return nil
}

// AcceptInvite moves the user from invited to accepted.
func (b *Board) AcceptInvite(userID uuid.UUID) error {
	switch b.MembershipOf(userID) {
	case MembershipAccepted:
		return ErrAlreadyMember
	case MembershipNone:
		return ErrNotInvited
	}
	b.Invited = removeID(b.Invited, userID)
	b.Members = append(b.Members, userID)
	b.touch()
	return nil
}

// DeclineInvite moves the user from invited back to none. The user can be
// invited again afterwards.
func (b *Board) DeclineInvite(userID uuid.UUID) error {
	if !containsID(b.Invited, userID) {
		return ErrNotInvited
	}
	b.Invited = removeID(b.Invited, userID)
	b.touch()
	return nil
}

// RemoveMember moves the user from accepted back to none and deletes every
// assignment referencing them across the board's tasks, in the same
// operation. No assignment may reference a non-member.
func (b *Board) RemoveMember(userID uuid.UUID) error {
	if !containsID(b.Members, userID) {
		return ErrNotMember
	}
	b.Members = removeID(b.Members, userID)
	b.removeAssignmentsFor(userID)
	b.touch()
	return nil
}

// removeAssignmentsFor strips all assignments held by the given user from
// every task on the board.
func (b *Board) removeAssignmentsFor(userID uuid.UUID) {
	for i := range b.Tasks {
		kept := b.Tasks[i].Assignments[:0]
		for _, a := range b.Tasks[i].Assignments {
			if a.UserID != userID {
				kept = append(kept, a)
			}
		}
		b.Tasks[i].Assignments = kept
	}
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	kept := ids[:0]
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	return kept
}
