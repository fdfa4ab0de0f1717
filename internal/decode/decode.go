// Package decode turns raw command lines into validated domain values.
//
// Decoding never touches storage. Every failure is one of the typed command
// errors in package cli, so callers can report it and leave state untouched.
package decode

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/jacksmith/dukepro/internal/cli"
	"github.com/jacksmith/dukepro/internal/model"
)

// Markers separating the segments of add commands.
const (
	MarkerBy     = "/by"
	MarkerAt     = "/at"
	MarkerAmount = "/amount"
	MarkerOn     = "/on"
)

// Usage lines shown with format errors.
const (
	UsageTodo     = "todo <description>"
	UsageDeadline = "deadline <description> /by <YYYY-MM-DD>"
	UsageEvent    = "event <description> /at <YYYY-MM-DD>"
	UsageExpense  = "expense <name> /amount <amount> /on <YYYY-MM-DD>"
	UsageDate     = "date <YYYY-MM-DD>"
)

// splitCommand splits line into its keyword and the rest at the first run of
// whitespace, so the keyword is the same token cli.FirstWord sees.
func splitCommand(line string) (keyword, rest string, ok bool) {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, "", false
	}
	return line[:i], strings.TrimLeftFunc(line[i:], unicode.IsSpace), true
}

// singleLine rejects free text that would not fit on one record line.
func singleLine(command, usage, what, text string) error {
	if strings.ContainsAny(text, "\r\n") {
		return &cli.BadFormatError{
			Command: command,
			Usage:   usage,
			Reason:  "the " + what + " cannot contain line breaks",
		}
	}
	return nil
}

// Task decodes a todo, deadline or event command.
func Task(line string) (model.Task, error) {
	keyword, rest, ok := splitCommand(line)
	if !ok || strings.TrimSpace(rest) == "" {
		return model.Task{}, &cli.EmptyDescriptionError{Command: keyword}
	}

	var (
		kind   model.Kind
		marker string
		usage  string
	)
	switch keyword {
	case "todo":
		description := strings.TrimSpace(rest)
		if err := singleLine(keyword, UsageTodo, "description", description); err != nil {
			return model.Task{}, err
		}
		return model.NewTodo(description), nil
	case "deadline":
		kind, marker, usage = model.KindDeadline, MarkerBy, UsageDeadline
	case "event":
		kind, marker, usage = model.KindEvent, MarkerAt, UsageEvent
	default:
		return model.Task{}, &cli.UnrecognizedCommandError{Input: keyword}
	}

	description, tail, found := strings.Cut(rest, marker)
	if !found {
		return model.Task{}, &cli.BadFormatError{
			Command: keyword,
			Usage:   usage,
			Reason:  "missing " + marker,
		}
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return model.Task{}, &cli.EmptyDescriptionError{Command: keyword}
	}
	if err := singleLine(keyword, usage, "description", description); err != nil {
		return model.Task{}, err
	}

	date, err := dateFor(keyword, tail, usage)
	if err != nil {
		return model.Task{}, err
	}
	return model.NewTask(kind, description, date), nil
}

// Index decodes "<verb> <n>" and checks 1 <= n <= size.
func Index(line string, size int) (int, error) {
	fields := strings.Fields(line)
	command := cli.FirstWord(line)
	if len(fields) != 2 {
		return 0, &cli.BadOperationError{
			Command: command,
			Reason:  "expected exactly one item number",
		}
	}
	if !isDigits(fields[1]) {
		return 0, &cli.BadFormatError{
			Command: command,
			Usage:   command + " <number>",
			Reason:  strconv.Quote(fields[1]) + " is not an item number",
		}
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, &cli.BadFormatError{
			Command: command,
			Usage:   command + " <number>",
			Reason:  strconv.Quote(fields[1]) + " is too large",
		}
	}
	if size == 0 {
		return 0, &cli.BadOperationError{Command: command, Reason: "the list is empty"}
	}
	if n < 1 || n > size {
		return 0, &cli.BadOperationError{
			Command: command,
			Reason:  "item " + fields[1] + " does not exist (valid numbers are 1 to " + strconv.Itoa(size) + ")",
		}
	}
	return n, nil
}

// Date decodes the last whitespace-delimited token after the keyword as an ISO date.
func Date(line string) (model.Date, error) {
	keyword, rest, _ := splitCommand(line)
	return dateFor(keyword, rest, UsageDate)
}

func dateFor(command, s, usage string) (model.Date, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return model.Date{}, &cli.BadFormatError{Command: command, Usage: usage, Reason: "missing date"}
	}
	date, err := model.ParseDate(fields[len(fields)-1])
	if err != nil {
		return model.Date{}, &cli.BadFormatError{Command: command, Usage: usage, Reason: err.Error()}
	}
	return date, nil
}

// FindQuery returns the search term, the second whitespace-delimited token.
func FindQuery(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", &cli.EmptyDescriptionError{Command: cli.FirstWord(line)}
	}
	return fields[1], nil
}

// Expense decodes "expense <name> /amount <n> /on <date>".
func Expense(line string) (model.Expense, error) {
	keyword, rest, ok := splitCommand(line)
	if !ok {
		return model.Expense{}, &cli.EmptyDescriptionError{Command: keyword}
	}

	name, afterName, found := strings.Cut(rest, MarkerAmount)
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return model.Expense{}, &cli.EmptyDescriptionError{Command: keyword}
	}
	if err := singleLine(keyword, UsageExpense, "name", name); err != nil {
		return model.Expense{}, err
	}
	if strings.Contains(name, ",") {
		return model.Expense{}, &cli.BadFormatError{
			Command: keyword,
			Usage:   UsageExpense,
			Reason:  "the name cannot contain commas",
		}
	}

	amountText, tail, found := strings.Cut(afterName, MarkerOn)
	amountText = strings.TrimSpace(amountText)
	if !found || amountText == "" {
		return model.Expense{}, &cli.EmptyDescriptionError{Command: keyword}
	}
	if !isDigits(amountText) {
		return model.Expense{}, &cli.BadFormatError{
			Command: keyword,
			Usage:   UsageExpense,
			Reason:  strconv.Quote(amountText) + " is not a whole amount",
		}
	}
	amount, err := strconv.Atoi(amountText)
	if err != nil {
		return model.Expense{}, &cli.BadFormatError{
			Command: keyword,
			Usage:   UsageExpense,
			Reason:  strconv.Quote(amountText) + " is too large",
		}
	}

	if strings.TrimSpace(tail) == "" {
		return model.Expense{}, &cli.EmptyDescriptionError{Command: keyword}
	}
	date, err := dateFor(keyword, tail, UsageExpense)
	if err != nil {
		return model.Expense{}, err
	}

	return model.Expense{Name: name, Amount: amount, Date: date}, nil
}

// PersistedTask decodes a task record from the task file.
func PersistedTask(line string) (model.Task, error) {
	return model.DecodeTask(line)
}

// PersistedExpense decodes an expense record from the expense file.
func PersistedExpense(line string) (model.Expense, error) {
	return model.DecodeExpense(line)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
