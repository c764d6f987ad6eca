package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the prediction and retraining pipeline. The
// handlers map these to HTTP statuses without inspecting message text:
// client kinds become 4xx, everything else is a generic 5xx.
var (
	// ErrArtifactUnavailable means the model or preprocessor artifact
	// could not be loaded. Fatal: there is no prediction without a model.
	ErrArtifactUnavailable = errors.New("model artifact unavailable")

	// ErrInsufficientData means fewer than the minimum training rows
	// exist. Client-visible, not a crash.
	ErrInsufficientData = errors.New("insufficient training data")

	// ErrPersistence wraps store write/commit failures after rollback.
	ErrPersistence = errors.New("persistence failure")

	// ErrTraining wraps fit or evaluation failures. The previous model
	// artifact is preserved whenever this is returned.
	ErrTraining = errors.New("training failure")
)

// PreparationError reports a missing or unrecognized input feature.
// Always a client error, never a system fault.
type PreparationError struct {
	Feature string
	Reason  string
}

func (e *PreparationError) Error() string {
	return fmt.Sprintf("cannot prepare feature %q: %s", e.Feature, e.Reason)
}

// IsClientError reports whether err should map to a 4xx response.
func IsClientError(err error) bool {
	var prepErr *PreparationError
	return errors.Is(err, ErrInsufficientData) || errors.As(err, &prepErr)
}
