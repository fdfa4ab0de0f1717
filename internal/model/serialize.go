package model

import (
	"fmt"
	"strconv"
	"strings"
)

// fieldSep separates record fields. Fields are not escaped; a task description may
// contain commas because the date is always read from the last field.
const fieldSep = ","

// EncodeTask renders t as one persisted record line:
// <T|D|E>,<true|false>,<description>[,<YYYY-MM-DD>]
func EncodeTask(t Task) string {
	fields := []string{t.kind.Tag(), strconv.FormatBool(t.done), t.description}
	if date, ok := t.OccursOn(); ok {
		fields = append(fields, date.String())
	}
	return strings.Join(fields, fieldSep)
}

// DecodeTask parses a record written by EncodeTask.
func DecodeTask(line string) (Task, error) {
	fields := strings.Split(line, fieldSep)
	if len(fields) < 3 {
		return Task{}, fmt.Errorf("task record %q has %d fields, want at least 3", line, len(fields))
	}

	kind, err := ParseKind(fields[0])
	if err != nil {
		return Task{}, fmt.Errorf("task record %q: %w", line, err)
	}
	done, err := strconv.ParseBool(fields[1])
	if err != nil {
		return Task{}, fmt.Errorf("task record %q: invalid done flag %q", line, fields[1])
	}

	var (
		description string
		date        Date
	)
	switch kind {
	case KindTodo:
		description = strings.Join(fields[2:], fieldSep)
	case KindDeadline, KindEvent:
		if len(fields) < 4 {
			return Task{}, fmt.Errorf("task record %q: %s has no date", line, kind)
		}
		description = strings.Join(fields[2:len(fields)-1], fieldSep)
		date, err = ParseDate(fields[len(fields)-1])
		if err != nil {
			return Task{}, fmt.Errorf("task record %q: %w", line, err)
		}
	}
	if description == "" {
		return Task{}, fmt.Errorf("task record %q has an empty description", line)
	}

	t := NewTask(kind, description, date)
	if done {
		t.MarkDone()
	}
	return t, nil
}

// Encode implements the store record contract.
func (t Task) Encode() string {
	return EncodeTask(t)
}

// EncodeExpense renders e as <name>,<amount>,<YYYY-MM-DD>.
func EncodeExpense(e Expense) string {
	return strings.Join([]string{e.Name, strconv.Itoa(e.Amount), e.Date.String()}, fieldSep)
}

// DecodeExpense parses a record written by EncodeExpense.
func DecodeExpense(line string) (Expense, error) {
	fields := strings.Split(line, fieldSep)
	if len(fields) != 3 {
		return Expense{}, fmt.Errorf("expense record %q has %d fields, want 3", line, len(fields))
	}
	if fields[0] == "" {
		return Expense{}, fmt.Errorf("expense record %q has an empty name", line)
	}
	amount, err := strconv.Atoi(fields[1])
	if err != nil || amount < 0 {
		return Expense{}, fmt.Errorf("expense record %q: invalid amount %q", line, fields[1])
	}
	date, err := ParseDate(fields[2])
	if err != nil {
		return Expense{}, fmt.Errorf("expense record %q: %w", line, err)
	}
	return Expense{Name: fields[0], Amount: amount, Date: date}, nil
}

// Encode implements the store record contract.
func (e Expense) Encode() string {
	return EncodeExpense(e)
}
