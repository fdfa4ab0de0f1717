package ops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/jacksmith/dukepro/internal/decode"
	"github.com/jacksmith/dukepro/internal/storage"
)

// ValidationErrorType represents the type of validation error.
type ValidationErrorType string

const (
	// ValidationErrorUnreadable marks a record the decoder rejects. Sessions skip
	// such records and drop them at the next rewrite.
	ValidationErrorUnreadable ValidationErrorType = "unreadable"
	// ValidationErrorNonCanonical marks a readable record that is not written the
	// way dukepro writes it, e.g. "T,1,read book" or "coffee,05,2024-01-10".
	ValidationErrorNonCanonical ValidationErrorType = "non_canonical"
)

// ValidationError represents a problem with one line of a data file.
// Line is 1-based. Blank lines in a data file are not counted.
type ValidationError struct {
	Type    ValidationErrorType
	Path    string
	Line    int
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s:%d: %s - %s", e.Path, e.Line, e.Type, e.Message)
}

// ValidationFix represents an auto-repair action taken.
type ValidationFix struct {
	Path        string
	Line        int
	Description string
}

// ValidateLines decodes every non-blank line and returns the readable records
// along with a problem for each line that is unreadable or non-canonical.
func ValidateLines[T Record](path string, lines []string, decodeLine func(string) (T, error)) ([]T, []ValidationError) {
	var (
		records  []T
		problems []ValidationError
	)
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		item, err := decodeLine(line)
		if err != nil {
			problems = append(problems, ValidationError{
				Type:    ValidationErrorUnreadable,
				Path:    path,
				Line:    i + 1,
				Message: err.Error(),
			})
			continue
		}
		if encoded := item.Encode(); encoded != line {
			problems = append(problems, ValidationError{
				Type:    ValidationErrorNonCanonical,
				Path:    path,
				Line:    i + 1,
				Message: fmt.Sprintf("%q should be written %q", line, encoded),
			})
		}
		records = append(records, item)
	}
	return records, problems
}

// Validate checks the task and expense files named by cfg without modifying
// them. Missing files have no problems.
func Validate(cfg *storage.Config) ([]ValidationError, error) {
	taskProblems, _, err := checkFile(cfg.TaskPath(), decode.PersistedTask, false)
	if err != nil {
		return nil, err
	}
	expenseProblems, _, err := checkFile(cfg.ExpensePath(), decode.PersistedExpense, false)
	if err != nil {
		return nil, err
	}
	return append(taskProblems, expenseProblems...), nil
}

// ValidateAndFix rewrites each data file that has problems so it holds only its
// readable records, in canonical form.
func ValidateAndFix(cfg *storage.Config) ([]ValidationFix, error) {
	_, taskFixes, err := checkFile(cfg.TaskPath(), decode.PersistedTask, true)
	if err != nil {
		return nil, err
	}
	_, expenseFixes, err := checkFile(cfg.ExpensePath(), decode.PersistedExpense, true)
	if err != nil {
		return nil, err
	}
	return append(taskFixes, expenseFixes...), nil
}

func checkFile[T Record](path string, decodeLine func(string) (T, error), fix bool) ([]ValidationError, []ValidationFix, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}

	f, err := storage.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	lines, err := f.ReadLines()
	if err != nil {
		return nil, nil, err
	}
	records, problems := ValidateLines(path, lines, decodeLine)
	if !fix || len(problems) == 0 {
		return problems, nil, nil
	}

	encoded := make([]string, len(records))
	for i, r := range records {
		encoded[i] = r.Encode()
	}
	if err := f.RewriteLines(encoded); err != nil {
		return nil, nil, fmt.Errorf("failed to repair %s: %w", path, err)
	}

	fixes := make([]ValidationFix, len(problems))
	for i, p := range problems {
		fixes[i] = ValidationFix{Path: p.Path, Line: p.Line}
		switch p.Type {
		case ValidationErrorUnreadable:
			fixes[i].Description = "removed unreadable record"
		default:
			fixes[i].Description = "rewrote record in canonical form"
		}
	}
	return problems, fixes, nil
}
