package predict

import "fmt"

// PredictionError wraps any failure of the remote scorer: transport errors,
// non-2xx responses, unparseable content, or schema mismatches. Callers
// treat it as retryable; the engine never falls back silently once a remote
// provider is configured.
type PredictionError struct {
	Op  string
	Err error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed (%s): %v", e.Op, e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }

func predErr(op string, err error) *PredictionError {
	return &PredictionError{Op: op, Err: err}
}
