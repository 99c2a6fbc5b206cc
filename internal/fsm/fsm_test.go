package fsm

import (
	"testing"

	"tradeBack/internal/models"
)

func TestCanTransition(t *testing.T) {
	if !CanTransition(models.StatusPending, models.StatusAwaitingConfirmation) {
		t.Fatal("expected pending -> awaiting_confirmation to be allowed")
	}
	if !CanTransition(models.StatusPending, models.StatusInProgress) {
		t.Fatal("expected pending -> in_progress to be allowed")
	}
	if !CanTransition(models.StatusInProgress, models.StatusAwaitingConfirmation) {
		t.Fatal("expected in_progress -> awaiting_confirmation to be allowed")
	}
	if !CanTransition(models.StatusAwaitingConfirmation, models.StatusCompleted) {
		t.Fatal("expected awaiting_confirmation -> completed to be allowed")
	}
	if !CanTransition(models.StatusAwaitingConfirmation, models.StatusCancelled) {
		t.Fatal("expected awaiting_confirmation -> cancelled to be allowed")
	}
	if CanTransition(models.StatusPending, models.StatusCompleted) {
		t.Fatal("unexpected transition allowed")
	}
	if CanTransition(models.StatusCompleted, models.StatusAwaitingConfirmation) {
		t.Fatal("completed must be terminal")
	}
	if CanTransition(models.StatusCancelled, models.StatusPending) {
		t.Fatal("cancelled must be terminal")
	}
	if !CanTransition(models.StatusCompleted, models.StatusCompleted) {
		t.Fatal("expected same-status transition to be a no-op")
	}
}

func TestChatCanTransition(t *testing.T) {
	if !ChatCanTransition(models.ChatActive, models.ChatJobDone) {
		t.Fatal("expected active -> job_done to be allowed")
	}
	if ChatCanTransition(models.ChatJobDone, models.ChatActive) {
		t.Fatal("job_done must be terminal for the chat instance")
	}
}
