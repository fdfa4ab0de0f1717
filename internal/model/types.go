// Package model defines the core data structures for dukepro.
package model

import (
	"fmt"
	"time"
)

// dateLayout is the ISO calendar date format used on the wire and in commands.
const dateLayout = "2006-01-02"

// displayLayout is how dates are shown to the user.
const displayLayout = "Jan 2 2006"

// Date is a calendar date without a time of day.
type Date struct {
	time.Time
}

// ParseDate parses an ISO YYYY-MM-DD date. Out-of-range months and days fail.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return Date{t}, nil
}

// NewDate builds a Date from its parts.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// String returns the ISO form.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// Display returns the human form, e.g. "Mar 1 2024".
func (d Date) Display() string {
	return d.Format(displayLayout)
}

// Equal reports whether d and o are the same calendar day.
func (d Date) Equal(o Date) bool {
	y1, m1, d1 := d.Date()
	y2, m2, d2 := o.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Kind identifies a task variant.
type Kind int

const (
	KindTodo Kind = iota
	KindDeadline
	KindEvent
)

// ParseKind maps a record tag (T, D or E) to a Kind.
func ParseKind(tag string) (Kind, error) {
	switch tag {
	case "T":
		return KindTodo, nil
	case "D":
		return KindDeadline, nil
	case "E":
		return KindEvent, nil
	default:
		return 0, fmt.Errorf("unknown task tag %q", tag)
	}
}

// Tag returns the single-letter record tag.
func (k Kind) Tag() string {
	switch k {
	case KindDeadline:
		return "D"
	case KindEvent:
		return "E"
	default:
		return "T"
	}
}

func (k Kind) String() string {
	switch k {
	case KindDeadline:
		return "deadline"
	case KindEvent:
		return "event"
	default:
		return "todo"
	}
}

// dateLabel is the word shown before a task's date.
func (k Kind) dateLabel() string {
	if k == KindEvent {
		return "at"
	}
	return "by"
}

// Task is a todo, deadline or event.
// Deadlines and events always carry a date; todos never do.
// Build tasks with NewTodo, NewDeadline or NewEvent.
type Task struct {
	kind        Kind
	description string
	date        Date
	done        bool
}

// NewTodo returns an undated task.
func NewTodo(description string) Task {
	return Task{kind: KindTodo, description: description}
}

// NewDeadline returns a task due by date.
func NewDeadline(description string, date Date) Task {
	return Task{kind: KindDeadline, description: description, date: date}
}

// NewEvent returns a task happening at date.
func NewEvent(description string, date Date) Task {
	return Task{kind: KindEvent, description: description, date: date}
}

// NewTask builds a task of the given kind. The date is ignored for todos.
func NewTask(kind Kind, description string, date Date) Task {
	switch kind {
	case KindDeadline:
		return NewDeadline(description, date)
	case KindEvent:
		return NewEvent(description, date)
	default:
		return NewTodo(description)
	}
}

// Kind returns the task variant.
func (t Task) Kind() Kind {
	return t.kind
}

func (t Task) Description() string {
	return t.description
}

func (t Task) Done() bool {
	return t.done
}

// Text is the searchable text of the task.
func (t Task) Text() string {
	return t.description
}

// MarkDone sets the completion flag.
func (t *Task) MarkDone() {
	t.done = true
}

// OccursOn returns the task's date. The second result is false for todos.
func (t Task) OccursOn() (Date, bool) {
	return t.date, t.kind != KindTodo
}

// Badge returns the type and completion markers, e.g. "[D][✓]".
func (t Task) Badge() string {
	mark := "✗"
	if t.done {
		mark = "✓"
	}
	return "[" + t.kind.Tag() + "][" + mark + "]"
}

// Detail returns the description followed by the date, if any.
func (t Task) Detail() string {
	if date, ok := t.OccursOn(); ok {
		return fmt.Sprintf("%s (%s: %s)", t.description, t.kind.dateLabel(), date.Display())
	}
	return t.description
}

// String renders the task as shown in replies.
func (t Task) String() string {
	return t.Badge() + " " + t.Detail()
}

// Expense is a named, dated amount. It has no completion state.
type Expense struct {
	Name   string
	Amount int
	Date   Date
}

// Text is the searchable text of the expense.
func (e Expense) Text() string {
	return e.Name
}

// OccursOn returns the date the expense was incurred.
func (e Expense) OccursOn() (Date, bool) {
	return e.Date, true
}

// Badge returns the expense marker.
func (e Expense) Badge() string {
	return "[$]"
}

// Detail returns the name, amount and date.
func (e Expense) Detail() string {
	return fmt.Sprintf("%s: $%d (on: %s)", e.Name, e.Amount, e.Date.Display())
}

// String renders the expense as shown in replies.
func (e Expense) String() string {
	return e.Badge() + " " + e.Detail()
}
