package workflow

import (
	"github.com/nonso-e/contestbk-go/errors"
	"github.com/nonso-e/contestbk-go/models"
)

// Screen is the navigation target a Decision points at.
type Screen uint8

const (
	// None_Screen means nothing should change, e.g. a late response for a
	// withdrawal the user has already navigated away from.
	None_Screen Screen = iota
	Preview_Screen
	Stage_Screen
	Access_Screen
	Notifications_Screen
)

func (s Screen) String() string {
	switch s {
	case None_Screen:
		return "none"
	case Preview_Screen:
		return "preview"
	case Stage_Screen:
		return "stage"
	case Access_Screen:
		return "access"
	case Notifications_Screen:
		return "notifications"
	default:
		panic("unreachable")
	}
}

// Decision is the outcome of interpreting one server response: where to
// navigate, with what context, and how a failure should be surfaced.
type Decision struct {
	Screen       Screen
	WithdrawalID string
	Stage        models.Stage
	Amount       *float64
	AwaitingCode bool

	// Retry marks a failure recovered in place; the triggering form stays
	// populated and the user may resubmit manually.
	Retry    bool
	Guidance string
	Err      *errors.AppError
}

func (d *Decision) Failed() bool {
	return d.Err != nil
}

func screenFor(stage models.Stage) Screen {
	switch {
	case stage == models.Preview_Stage:
		return Preview_Screen
	case stage.Terminal():
		return Access_Screen
	default:
		return Stage_Screen
	}
}

// classifyFailure maps a structured error onto a recovery decision for the
// (withdrawal, stage) the user was acting on. Classification is by error
// type only, never by message text.
func classifyFailure(err error, withdrawalID string, stage models.Stage) *Decision {
	appErr := errors.AsAppError(err)
	decision := &Decision{
		WithdrawalID: withdrawalID,
		Stage:        stage,
		Err:          &appErr,
	}

	switch appErr.Type {
	case errors.ErrIneligible:
		// fatal to the attempted transition, nothing was created
		decision.Screen = None_Screen
		decision.Guidance = appErr.Message
	case errors.ErrMissingContext, errors.ErrNotFound:
		decision.Screen = Preview_Screen
		decision.Guidance = "Start again from the withdrawal preview."
	case errors.ErrValidation:
		decision.Screen = screenFor(stage)
		decision.Retry = true
		decision.Guidance = appErr.Message
	case errors.ErrNoPinSet:
		decision.Screen = Notifications_Screen
		decision.Guidance = "No confirmation code has been issued for this stage yet. Check your notifications shortly."
	case errors.ErrIncorrectCode:
		decision.Screen = screenFor(stage)
		decision.Retry = true
		decision.Guidance = "That code is not correct. Check your notifications for the most recent code issued for this stage."
	case errors.ErrTransport:
		decision.Screen = screenFor(stage)
		decision.Retry = true
		decision.Guidance = "Network error, please try again."
	default:
		decision.Screen = screenFor(stage)
		decision.Retry = true
		decision.Guidance = appErr.Message
	}

	return decision
}
