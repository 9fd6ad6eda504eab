package reach

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConfigError reports an invalid Config (spec §7): non-positive radius,
// sub-1 max steps, negative threshold, etc. Fatal; surfaced before any
// work begins.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: field %q: %s", e.Field, e.Reason)
}

func newConfigError(field, reason string) error {
	return &ConfigError{Field: field, Reason: reason}
}

// EmptyDatabaseError reports that Optimize was called with no records
// (spec §7). Fatal to the call.
type EmptyDatabaseError struct{}

func (e *EmptyDatabaseError) Error() string {
	return "optimize called on an empty database"
}

// PluginFailureError wraps an error returned by an IKSolver or Evaluator
// plugin during per-record work (spec §7). It is recovered locally by the
// caller: the affected record is marked unreached and the failure logged,
// so a single bad pose cannot sink the run. The engine passes its Error()
// text to Logger.Print.
type PluginFailureError struct {
	RecordID string
	Plugin   string
	Err      error
}

func (e *PluginFailureError) Error() string {
	return fmt.Sprintf("plugin failure (%s) on record %q: %v", e.Plugin, e.RecordID, e.Err)
}

func (e *PluginFailureError) Unwrap() error { return e.Err }

func newPluginFailure(recordID, plugin string, err error) error {
	return &PluginFailureError{RecordID: recordID, Plugin: plugin, Err: err}
}

// InvalidPoseError is returned by an Evaluator when the pose it was asked
// to score is missing a joint it requires (spec §4.1).
type InvalidPoseError struct {
	Missing []string
}

func (e *InvalidPoseError) Error() string {
	return fmt.Sprintf("invalid pose: missing joints %v", e.Missing)
}

// CorruptDatabaseError wraps any failure of Engine.Load to read, decode or
// validate a database file (spec §6, §7). Surfaced to the caller.
type CorruptDatabaseError struct {
	Path string
	Err  error
}

func (e *CorruptDatabaseError) Error() string {
	return fmt.Sprintf("corrupt database at %q: %v", e.Path, e.Err)
}

func (e *CorruptDatabaseError) Unwrap() error { return e.Err }

// InvariantViolationError reports an internal consistency failure, such as
// a mismatch between an IKSolver's joint_names() and an Evaluator's
// required joints (spec §7). Always fatal.
type InvariantViolationError struct {
	Reason string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Reason)
}

func newInvariantViolation(format string, args ...interface{}) error {
	return &InvariantViolationError{Reason: errors.Errorf(format, args...).Error()}
}
