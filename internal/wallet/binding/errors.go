package binding

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrAccountReuse is returned when the EVM address already holds funds.
	ErrAccountReuse = errors.New("evm account already in use")
	// ErrDuplicateBinding is returned when the chain already maps the EVM address.
	ErrDuplicateBinding = errors.New("evm account already bound")
	// ErrTransactionFailed is returned when a submitted claim did not take effect.
	ErrTransactionFailed = errors.New("claim transaction failed")
)

// Stage is one step of the binding protocol.
type Stage string

const (
	StageConnect      Stage = "connect"
	StageBindingState Stage = "binding_state"
	StageBalance      Stage = "balance"
	StageSign         Stage = "sign"
	StageSubmit       Stage = "submit"
	StageFinalize     Stage = "finalize"
)

// StageError reports the stage a bind attempt failed in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("bind %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the whole protocol may be rerun.
// Only the network reads before StageSign are transient; signing is local and
// fails the same way every time. Once submission started the claim may be in
// flight and the caller must re-check chain state.
func (e *StageError) Retryable() bool {
	switch e.Stage {
	case StageConnect, StageBindingState, StageBalance:
		return !errors.Is(e.Err, ErrAccountReuse) && !errors.Is(e.Err, ErrDuplicateBinding)
	case StageSign, StageSubmit, StageFinalize:
		return false
	default:
		return false
	}
}

// FailedStage returns the stage of a bind error, or "" if err is not a StageError.
func FailedStage(err error) Stage {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}

	return ""
}

func stageError(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}
