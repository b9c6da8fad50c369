package missions

import (
	"errors"
	"fmt"

	"github.com/dronesurvey/dss/internal/model"
)

var (
	ErrNotFound          = errors.New("mission not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrUnknownAction     = errors.New("unknown action")
)

// TransitionError names the rejected action and the status it was rejected in.
type TransitionError struct {
	Action Action
	Status model.MissionStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid action '%s' for current status '%s'", e.Action, e.Status)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
