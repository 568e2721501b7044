package reap

import (
	"errors"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/rcarmo/pskill/pkg/applets/procutil"
)

// Outcome is the result of one termination attempt.
type Outcome string

const (
	OutcomeSignalled        Outcome = "signalled"
	OutcomeNotFound         Outcome = "not-found"
	OutcomePermissionDenied Outcome = "permission-denied"
	OutcomeFailed           Outcome = "failed"
	OutcomeDryRun           Outcome = "dry-run"
)

// OK reports whether the outcome counts as success.
func (o Outcome) OK() bool {
	return o == OutcomeSignalled || o == OutcomeDryRun
}

// Attempt records one termination request.
type Attempt struct {
	PID     int     `yaml:"pid" json:"pid"`
	Command string  `yaml:"command" json:"command"`
	Outcome Outcome `yaml:"outcome" json:"outcome"`
	Error   string  `yaml:"error,omitempty" json:"error,omitempty"`
}

// Classify maps a kill(2) error onto an Outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSignalled
	case errors.Is(err, unix.ESRCH):
		return OutcomeNotFound
	case errors.Is(err, unix.EPERM):
		return OutcomePermissionDenied
	default:
		return OutcomeFailed
	}
}

// Terminate sends sig to every target in order. Failures are recorded in
// the returned attempts and never stop the loop. With dryRun set nothing is
// sent.
func Terminate(targets []Target, signaler procutil.Signaler, sig syscall.Signal, dryRun bool, log zerolog.Logger) []Attempt {
	attempts := make([]Attempt, 0, len(targets))
	for _, target := range targets {
		attempt := Attempt{PID: target.PID, Command: target.Record.Command()}
		if dryRun {
			attempt.Outcome = OutcomeDryRun
			log.Debug().Int("pid", target.PID).Str("command", attempt.Command).Msg("would signal")
			attempts = append(attempts, attempt)
			continue
		}
		err := signaler.Signal(target.PID, sig)
		attempt.Outcome = Classify(err)
		if err != nil {
			attempt.Error = err.Error()
			log.Warn().Err(err).Int("pid", target.PID).Str("outcome", string(attempt.Outcome)).Msg("signal not delivered")
		} else {
			log.Info().Int("pid", target.PID).Str("command", attempt.Command).Msg("signalled")
		}
		attempts = append(attempts, attempt)
	}
	return attempts
}
