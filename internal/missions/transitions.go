package missions

import (
	"fmt"

	"github.com/dronesurvey/dss/internal/model"
)

type Action string

const (
	ActionStart    Action = "start"
	ActionPause    Action = "pause"
	ActionResume   Action = "resume"
	ActionAbort    Action = "abort"
	ActionComplete Action = "complete"
)

type transition struct {
	from   model.MissionStatus
	action Action
}

// The only legal moves. Anything not listed here is rejected before any mutation.
var transitions = map[transition]model.MissionStatus{
	{model.StatusPlanned, ActionStart}:       model.StatusInProgress,
	{model.StatusInProgress, ActionPause}:    model.StatusPaused,
	{model.StatusPaused, ActionResume}:       model.StatusInProgress,
	{model.StatusInProgress, ActionAbort}:    model.StatusAborted,
	{model.StatusPaused, ActionAbort}:        model.StatusAborted,
	{model.StatusInProgress, ActionComplete}: model.StatusCompleted,
}

func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionStart, ActionPause, ActionResume, ActionAbort, ActionComplete:
		return a, nil
	default:
		return "", fmt.Errorf("%w '%s'", ErrUnknownAction, s)
	}
}

// Next returns the status reached by applying action in status from.
func Next(from model.MissionStatus, action Action) (model.MissionStatus, bool) {
	to, ok := transitions[transition{from, action}]

	return to, ok
}
