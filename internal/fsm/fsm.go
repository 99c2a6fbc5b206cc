package fsm

import (
	"context"
	"database/sql"
	"errors"

	"tradeBack/internal/models"
)

var requestTransitions = map[models.RequestStatus]map[models.RequestStatus]struct{}{
	models.StatusPending: {
		models.StatusInProgress:           {},
		models.StatusAwaitingConfirmation: {},
		models.StatusCancelled:            {},
	},
	models.StatusInProgress: {
		models.StatusAwaitingConfirmation: {},
		models.StatusCancelled:            {},
	},
	models.StatusAwaitingConfirmation: {
		models.StatusCompleted: {},
		models.StatusCancelled: {},
	},
	models.StatusCompleted: {},
	models.StatusCancelled: {},
}

var chatTransitions = map[models.ChatStatus]map[models.ChatStatus]struct{}{
	models.ChatActive:  {models.ChatJobDone: {}},
	models.ChatJobDone: {},
}

// CanTransition reports whether a job request may move from the
// current status to the target status.
func CanTransition(from, to models.RequestStatus) bool {
	if from == to {
		return true
	}
	allowed, ok := requestTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// ChatCanTransition reports whether a chat may move between statuses.
func ChatCanTransition(from, to models.ChatStatus) bool {
	if from == to {
		return true
	}
	allowed, ok := chatTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// ApplyRequest updates a job request status using optimistic
// validation: the UPDATE is guarded on the expected current status so
// a concurrent transition loses cleanly.
func ApplyRequest(ctx context.Context, tx *sql.Tx, requestID int, fromStatus, toStatus models.RequestStatus) error {
	if !CanTransition(fromStatus, toStatus) {
		return errors.New("invalid status transition")
	}
	res, err := tx.ExecContext(ctx, `UPDATE job_requests SET status = ? WHERE id = ? AND status = ?`, toStatus, requestID, fromStatus)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
