package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestMembershipOf(t *testing.T) {
	t.Parallel()
	board := mustNewBoard(t)
	invited := uuid.New()
	member := uuid.New()
	board.Invited = append(board.Invited, invited)
	board.Members = append(board.Members, member)

	if got := board.MembershipOf(board.OwnerID); got != MembershipAccepted {
		t.Errorf("Expected owner reported as accepted, got %s", got)
	}
	if got := board.MembershipOf(member); got != MembershipAccepted {
		t.Errorf("Expected accepted, got %s", got)
	}
	if got := board.MembershipOf(invited); got != MembershipInvited {
		t.Errorf("Expected invited, got %s", got)
	}
	if got := board.MembershipOf(uuid.New()); got != MembershipNone {
		t.Errorf("Expected none, got %s", got)
	}
}

func TestInviteAcceptLifecycle(t *testing.T) {
	t.Parallel()
	board := mustNewBoard(t)
	userID := uuid.New()

	if err := board.Invite(userID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if board.MembershipOf(userID) != MembershipInvited {
		t.Error("Expected user invited after Invite")
	}

	// Double invite conflicts
	if err := board.Invite(userID); err != ErrAlreadyInvited {
		t.Errorf("Expected error %v, got %v", ErrAlreadyInvited, err)
	}

	if err := board.AcceptInvite(userID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if board.MembershipOf(userID) != MembershipAccepted {
		t.Error("Expected user accepted after AcceptInvite")
	}
	if containsID(board.Invited, userID) {
		t.Error("Expected invite consumed on accept")
	}

	// Accepting twice conflicts
	if err := board.AcceptInvite(userID); err != ErrAlreadyMember {
		t.Errorf("Expected error %v, got %v", ErrAlreadyMember, err)
	}

	// Inviting a current member conflicts
	if err := board.Invite(userID); err != ErrAlreadyMember {
		t.Errorf("Expected error %v, got %v", ErrAlreadyMember, err)
	}

	// Inviting the owner conflicts: ownership subsumes membership
	if err := board.Invite(board.OwnerID); err != ErrAlreadyMember {
		t.Errorf("Expected error %v, got %v", ErrAlreadyMember, err)
	}
}

func TestAcceptWithoutInvite(t *testing.T) {
	t.Parallel()
	board := mustNewBoard(t)

	if err := board.AcceptInvite(uuid.New()); err != ErrNotInvited {
		t.Errorf("Expected error %v, got %v", ErrNotInvited, err)
	}
}

func TestDeclineInvite(t *testing.T) {
	t.Parallel()
	board := mustNewBoard(t)
	userID := uuid.New()

	if err := board.DeclineInvite(userID); err != ErrNotInvited {
		t.Errorf("Expected error %v, got %v", ErrNotInvited, err)
	}

	if err := board.Invite(userID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := board.DeclineInvite(userID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if board.MembershipOf(userID) != MembershipNone {
		t.Error("Expected user back to none after decline")
	}

	// Declined users can be invited again
	if err := board.Invite(userID); err != nil {
		t.Errorf("Expected re-invite after decline to succeed, got %v", err)
	}
}

func TestRemoveMember(t *testing.T) {
	t.Parallel()
	board := mustNewBoard(t)
	member := uuid.New()
	other := uuid.New()
	board.Members = append(board.Members, member, other)

	task, err := board.AddTask(Task{
		Title: "Shared work",
		Assignments: []Assignment{
			{UserID: member, AssignedBy: board.OwnerID},
			{UserID: other, AssignedBy: board.OwnerID},
		},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := board.RemoveMember(member); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if board.MembershipOf(member) != MembershipNone {
		t.Error("Expected removed member back to none")
	}

	// Assignment cascade: only the removed member's assignments drop
	if len(task.Assignments) != 1 {
		t.Fatalf("Expected 1 remaining assignment, got %d", len(task.Assignments))
	}
	if task.Assignments[0].UserID != other {
		t.Error("Expected the other member's assignment to survive")
	}

	// Removing again conflicts
	if err := board.RemoveMember(member); err != ErrNotMember {
		t.Errorf("Expected error %v, got %v", ErrNotMember, err)
	}

	// Removed users can be invited again
	if err := board.Invite(member); err != nil {
		t.Errorf("Expected re-invite after removal to succeed, got %v", err)
	}
}

func TestMembershipConflictFamily(t *testing.T) {
	t.Parallel()
	conflicts := []error{ErrAlreadyInvited, ErrAlreadyMember, ErrNotInvited, ErrNotMember}
	for _, err := range conflicts {
		if !errors.Is(err, ErrMembershipConflict) {
			t.Errorf("Expected %v to wrap ErrMembershipConflict", err)
		}
	}
}
