package dataset

import (
	"fmt"
	"strings"
)

// ColumnCountMismatchError reports a header whose column count differs from
// the number of bound variable names.
type ColumnCountMismatchError struct {
	Expected int // number of bound variable names
	Actual   int // number of header columns
}

func (e *ColumnCountMismatchError) Error() string {
	return fmt.Sprintf("dataset has %d columns, expected %d (one per bound variable)", e.Actual, e.Expected)
}

// VariableNameMismatchError reports bound variable names missing from the
// header and header columns not bound to any region.
type VariableNameMismatchError struct {
	MissingNames    []string // bound names absent from the header
	UnexpectedNames []string // header columns matching no bound name
}

func (e *VariableNameMismatchError) Error() string {
	var parts []string
	if len(e.MissingNames) > 0 {
		parts = append(parts, fmt.Sprintf("missing columns: %s", strings.Join(e.MissingNames, ", ")))
	}
	if len(e.UnexpectedNames) > 0 {
		parts = append(parts, fmt.Sprintf("unexpected columns: %s", strings.Join(e.UnexpectedNames, ", ")))
	}
	return "dataset columns do not match bound variable names (" + strings.Join(parts, "; ") + ")"
}

// ValidationError aggregates every check that failed so the caller can
// present one consolidated message instead of fixing errors one at a time.
type ValidationError struct {
	ColumnCount  *ColumnCountMismatchError
	NameMismatch *VariableNameMismatchError
}

func (e *ValidationError) Error() string {
	var parts []string
	if e.ColumnCount != nil {
		parts = append(parts, e.ColumnCount.Error())
	}
	if e.NameMismatch != nil {
		parts = append(parts, e.NameMismatch.Error())
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes the individual check failures to errors.As / errors.Is.
func (e *ValidationError) Unwrap() []error {
	var errs []error
	if e.ColumnCount != nil {
		errs = append(errs, e.ColumnCount)
	}
	if e.NameMismatch != nil {
		errs = append(errs, e.NameMismatch)
	}
	return errs
}

// Validate gates a dataset against the session's bound variable names.
//
// Both checks run even when the first fails, so a single error carries the
// complete picture. Matching is verbatim and case-sensitive, the same
// strict-equality contract the store's Bind uses. A nil return means the
// dataset is accepted; cell values are never inspected or coerced.
func Validate(ds *Dataset, boundNames []string) error {
	var verr ValidationError

	if len(ds.Columns) != len(boundNames) {
		verr.ColumnCount = &ColumnCountMismatchError{
			Expected: len(boundNames),
			Actual:   len(ds.Columns),
		}
	}

	columnSet := make(map[string]bool, len(ds.Columns))
	for _, c := range ds.Columns {
		columnSet[c] = true
	}
	boundSet := make(map[string]bool, len(boundNames))
	for _, n := range boundNames {
		boundSet[n] = true
	}

	var missing, unexpected []string
	for _, n := range boundNames {
		if !columnSet[n] {
			missing = append(missing, n)
		}
	}
	for _, c := range ds.Columns {
		if !boundSet[c] {
			unexpected = append(unexpected, c)
		}
	}
	if len(missing) > 0 || len(unexpected) > 0 {
		verr.NameMismatch = &VariableNameMismatchError{
			MissingNames:    missing,
			UnexpectedNames: unexpected,
		}
	}

	if verr.ColumnCount == nil && verr.NameMismatch == nil {
		return nil
	}
	return &verr
}
