package usecase

import (
	"errors"
	"strings"
)

// ErrAdvisory marks a submission held back because its preview raised advisories.
var ErrAdvisory = errors.New("budget advisories raised")

// AdvisoryError lists the advisories that blocked a submission. Callers can
// resubmit with force to send it anyway; the server has the final say.
type AdvisoryError struct {
	Preview BudgetPreview
}

func (e *AdvisoryError) Error() string {
	parts := make([]string, 0, len(e.Preview.Result.Advisories))
	for _, a := range e.Preview.Result.Advisories {
		parts = append(parts, string(a))
	}
	return ErrAdvisory.Error() + ": " + strings.Join(parts, "; ")
}

func (e *AdvisoryError) Unwrap() error { return ErrAdvisory }

func checkAdvisories(p BudgetPreview, force bool) error {
	if force || len(p.Result.Advisories) == 0 {
		return nil
	}
	return &AdvisoryError{Preview: p}
}
