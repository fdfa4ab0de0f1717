// Package ops implements the interpreter's stores and the session that routes
// commands to them.
package ops

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jacksmith/dukepro/internal/cli"
	"github.com/jacksmith/dukepro/internal/log"
	"github.com/jacksmith/dukepro/internal/model"
	"github.com/jacksmith/dukepro/internal/storage"
)

// Record is an entity a Store can hold and persist.
type Record interface {
	// Encode returns the single-line persisted form.
	Encode() string
	// Text is the searchable text.
	Text() string
	// Badge is the short type/state marker shown before Detail.
	Badge() string
	// Detail is the human description shown in listings.
	Detail() string
}

// completer is implemented by records with a completion flag.
type completer interface {
	MarkDone()
}

type doneReporter interface {
	Done() bool
}

type dated interface {
	OccursOn() (model.Date, bool)
}

// Store is an ordered collection of records with 1-based positional access,
// kept in sync with a line file: additions are appended, any other change
// rewrites the whole file.
type Store[T Record] struct {
	noun     string
	items    []T
	file     *storage.File
	log      *log.Logger
	maxWidth int
}

// NewStore loads every record in file and returns a store over them.
// Lines that cannot be decoded are skipped with a warning and disappear at the
// next rewrite.
func NewStore[T Record](file *storage.File, noun string, decode func(string) (T, error), logger *log.Logger) (*Store[T], error) {
	s := &Store[T]{
		noun: noun,
		file: file,
		log:  logger.With(log.FieldPath, file.Path()),
	}

	lines, err := file.ReadLines()
	if err != nil {
		return nil, fmt.Errorf("failed to load %ss: %w", noun, err)
	}
	for i, line := range lines {
		item, err := decode(line)
		if err != nil {
			s.log.Warn("skipping unreadable record", log.FieldLine, i+1, log.FieldError, err)
			continue
		}
		s.items = append(s.items, item)
	}

	s.log.Debug("loaded records", log.FieldCount, len(s.items))
	return s, nil
}

// SetMaxDescriptionWidth truncates descriptions in listings; 0 disables it.
func (s *Store[T]) SetMaxDescriptionWidth(width int) {
	s.maxWidth = width
}

// NumStored returns the number of records.
func (s *Store[T]) NumStored() int {
	return len(s.items)
}

// Items returns a copy of the records in order.
func (s *Store[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Add appends item and persists it. An item whose record would span more than
// one line is rejected, since the file could no longer be read back as-is.
func (s *Store[T]) Add(item T) (string, error) {
	record := item.Encode()
	if strings.ContainsAny(record, "\r\n") {
		return "", &cli.BadFormatError{Command: "add", Reason: fmt.Sprintf("%s record %q spans more than one line", s.noun, record)}
	}

	s.items = append(s.items, item)
	if err := s.file.AppendLine(record); err != nil {
		s.items = s.items[:len(s.items)-1]
		return "", fmt.Errorf("failed to save %s: %w", s.noun, err)
	}
	s.log.Debug("added record", log.FieldCount, len(s.items))

	return fmt.Sprintf("Got it. I've added this %s:\n  %s\n%s",
		s.noun, render(item), s.countLine()), nil
}

// Delete removes the record at 1-based index.
func (s *Store[T]) Delete(index int) (string, error) {
	if err := s.checkIndex("delete", index); err != nil {
		return "", err
	}

	previous := s.items
	removed := s.items[index-1]
	s.items = make([]T, 0, len(previous)-1)
	s.items = append(s.items, previous[:index-1]...)
	s.items = append(s.items, previous[index:]...)

	if err := s.persist(); err != nil {
		s.items = previous
		return "", err
	}
	s.log.Debug("deleted record", log.FieldIndex, index, log.FieldCount, len(s.items))

	return fmt.Sprintf("Noted. I've removed this %s:\n  %s\n%s",
		s.noun, render(removed), s.countLine()), nil
}

// MarkDone sets the completion flag of the record at 1-based index.
func (s *Store[T]) MarkDone(index int) (string, error) {
	if err := s.checkIndex("done", index); err != nil {
		return "", err
	}

	item := &s.items[index-1]
	c, ok := any(item).(completer)
	if !ok {
		return "", &cli.BadOperationError{Command: "done", Reason: s.noun + "s cannot be marked as done"}
	}

	previous := *item
	c.MarkDone()
	if err := s.persist(); err != nil {
		*item = previous
		return "", err
	}
	s.log.Debug("marked record done", log.FieldIndex, index)

	return fmt.Sprintf("Nice! I've marked this %s as done:\n  %s", s.noun, render(*item)), nil
}

// ShowList renders every record with its 1-based index.
func (s *Store[T]) ShowList() string {
	if len(s.items) == 0 {
		return fmt.Sprintf("Your %s list is empty.", s.noun)
	}
	return fmt.Sprintf("Here are the %ss in your list:\n%s", s.noun, s.table(func(T) bool { return true }))
}

// Find renders the records whose text contains query (case-sensitive), keeping
// their original indices.
func (s *Store[T]) Find(query string) string {
	t := s.table(func(item T) bool {
		return strings.Contains(item.Text(), query)
	})
	if t == "" {
		return fmt.Sprintf("No %ss match %q.", s.noun, query)
	}
	return fmt.Sprintf("Here are the matching %ss in your list:\n%s", s.noun, t)
}

// ShowByDate renders the dated records falling on date.
func (s *Store[T]) ShowByDate(date model.Date) string {
	t := s.table(func(item T) bool {
		d, ok := any(item).(dated)
		if !ok {
			return false
		}
		on, has := d.OccursOn()
		return has && on.Equal(date)
	})
	if t == "" {
		return fmt.Sprintf("No %ss on %s.", s.noun, date.Display())
	}
	return fmt.Sprintf("Here are the %ss on %s:\n%s", s.noun, date.Display(), t)
}

// Close releases the backing file. Call it once at the end of the session.
func (s *Store[T]) Close() error {
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("failed to close %s store: %w", s.noun, err)
	}
	return nil
}

func (s *Store[T]) checkIndex(command string, index int) error {
	if len(s.items) == 0 {
		return &cli.BadOperationError{Command: command, Reason: fmt.Sprintf("your %s list is empty", s.noun)}
	}
	if index < 1 || index > len(s.items) {
		return &cli.BadOperationError{
			Command: command,
			Reason:  fmt.Sprintf("there is no %s %d (you have %s)", s.noun, index, plural(len(s.items), s.noun)),
		}
	}
	return nil
}

func (s *Store[T]) persist() error {
	lines := make([]string, len(s.items))
	for i, item := range s.items {
		lines[i] = item.Encode()
	}
	if err := s.file.RewriteLines(lines); err != nil {
		return fmt.Errorf("failed to save %ss: %w", s.noun, err)
	}
	return nil
}

// table renders the records accepted by keep, or "" when none are.
func (s *Store[T]) table(keep func(T) bool) string {
	t := cli.NewTable()
	t.SetMaxWidth(2, s.maxWidth)
	for i, item := range s.items {
		if !keep(item) {
			continue
		}
		t.AddRow(strconv.Itoa(i+1)+".", badge(item), item.Detail())
	}
	if t.Len() == 0 {
		return ""
	}
	return t.String()
}

func (s *Store[T]) countLine() string {
	return fmt.Sprintf("Now you have %s in the list.", plural(len(s.items), s.noun))
}

func render(r Record) string {
	return badge(r) + " " + r.Detail()
}

func badge(r Record) string {
	if d, ok := r.(doneReporter); ok && d.Done() {
		return cli.Green(r.Badge())
	}
	return r.Badge()
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
