package ops

import (
	"errors"
	"fmt"

	"github.com/jacksmith/dukepro/internal/cli"
	"github.com/jacksmith/dukepro/internal/decode"
	"github.com/jacksmith/dukepro/internal/log"
	"github.com/jacksmith/dukepro/internal/model"
	"github.com/jacksmith/dukepro/internal/storage"
)

var (
	// ErrNotStarted is returned by Handle before Start.
	ErrNotStarted = errors.New("session has not been started")
	// ErrSessionEnded is returned by Handle after bye.
	ErrSessionEnded = errors.New("session has ended")
)

// State is the lifecycle state of a Session.
type State int

const (
	StateNew State = iota
	StateRunning
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	default:
		return "new"
	}
}

// Reply is the response to one command line.
type Reply struct {
	Text string
	// Ended is set by bye. The caller should stop reading input.
	Ended bool
}

const logo = " ____        _\n" +
	"|  _ \\ _   _| | _____\n" +
	"| | | | | | | |/ / _ \\\n" +
	"| |_| | |_| |   <  __/\n" +
	"|____/ \\__,_|_|\\_\\___|\n"

// Farewell is the reply text of bye.
const Farewell = "Bye. Hope to see you again soon!"

// Command keywords.
const (
	cmdBye         = "bye"
	cmdList        = "list"
	cmdDone        = "done"
	cmdDelete      = "delete"
	cmdTodo        = "todo"
	cmdDeadline    = "deadline"
	cmdEvent       = "event"
	cmdDate        = "date"
	cmdFind        = "find"
	cmdExpense     = "expense"
	cmdShowExpense = "showExpense"
	cmdDelExpense  = "delExpense"
)

var keywords = []cli.Keyword{
	{Name: cmdBye, FoldFirst: true},
	{Name: cmdList, FoldFirst: true},
	{Name: cmdDone, FoldFirst: true},
	{Name: cmdDelete, FoldFirst: true},
	{Name: cmdTodo},
	{Name: cmdDeadline},
	{Name: cmdEvent},
	{Name: cmdDate, FoldFirst: true},
	{Name: cmdFind, FoldFirst: true},
	{Name: cmdExpense, FoldFirst: true},
	{Name: cmdShowExpense},
	{Name: cmdDelExpense},
}

// Keywords returns the command verbs a session understands, in dispatch order.
func Keywords() []string {
	names := make([]string, len(keywords))
	for i, kw := range keywords {
		names[i] = kw.Name
	}
	return names
}

// Session owns the task and expense stores for one interactive session and
// routes command lines to them. It is not safe for concurrent use.
type Session struct {
	cfg      *storage.Config
	log      *log.Logger
	tasks    *Store[model.Task]
	expenses *Store[model.Expense]
	state    State
}

// NewSession returns a session that will keep its files as described by cfg.
func NewSession(cfg *storage.Config, logger *log.Logger) *Session {
	return &Session{
		cfg: cfg,
		log: logger.WithComponent(log.ComponentSession),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Tasks returns the task store. It is nil before Start.
func (s *Session) Tasks() *Store[model.Task] {
	return s.tasks
}

// Expenses returns the expense store. It is nil before Start.
func (s *Session) Expenses() *Store[model.Expense] {
	return s.expenses
}

// Start opens both stores, loading persisted records, and returns the greeting.
func (s *Session) Start() (string, error) {
	if s.state != StateNew {
		return "", fmt.Errorf("session is already %s", s.state)
	}

	storeLog := s.log.WithComponent(log.ComponentStore)

	taskFile, err := storage.OpenFile(s.cfg.TaskPath())
	if err != nil {
		return "", err
	}
	tasks, err := NewStore(taskFile, "task", decode.PersistedTask, storeLog)
	if err != nil {
		taskFile.Close()
		return "", err
	}

	expenseFile, err := storage.OpenFile(s.cfg.ExpensePath())
	if err != nil {
		taskFile.Close()
		return "", err
	}
	expenses, err := NewStore(expenseFile, "expense", decode.PersistedExpense, storeLog)
	if err != nil {
		taskFile.Close()
		expenseFile.Close()
		return "", err
	}

	tasks.SetMaxDescriptionWidth(s.cfg.MaxDescriptionWidth)
	expenses.SetMaxDescriptionWidth(s.cfg.MaxDescriptionWidth)
	s.tasks, s.expenses = tasks, expenses
	s.state = StateRunning
	s.log.Info("session started",
		"tasks", tasks.NumStored(),
		"expenses", expenses.NumStored(),
		"data_dir", s.cfg.DataDir)

	return "Hello from\n" + logo + "\nHow can I help you?", nil
}

// Handle runs one command line. Command errors (see cli.KindOf) leave both
// stores unchanged. After bye the reply has Ended set and further calls
// return ErrSessionEnded.
func (s *Session) Handle(line string) (Reply, error) {
	switch s.state {
	case StateNew:
		return Reply{}, ErrNotStarted
	case StateTerminated:
		return Reply{}, ErrSessionEnded
	}

	keyword, err := cli.MatchKeyword(cli.FirstWord(line), keywords)
	if err != nil {
		return Reply{}, err
	}
	s.log.Debug("handling command", log.FieldCommand, keyword)

	text, err := s.dispatch(keyword, line)
	if err != nil {
		return Reply{}, err
	}
	if keyword == cmdBye {
		return Reply{Text: text, Ended: true}, s.shutdown()
	}
	return Reply{Text: text}, nil
}

func (s *Session) dispatch(keyword, line string) (string, error) {
	switch keyword {
	case cmdBye:
		return Farewell, nil
	case cmdList:
		return s.tasks.ShowList(), nil
	case cmdDone:
		n, err := decode.Index(line, s.tasks.NumStored())
		if err != nil {
			return "", err
		}
		return s.tasks.MarkDone(n)
	case cmdDelete:
		n, err := decode.Index(line, s.tasks.NumStored())
		if err != nil {
			return "", err
		}
		return s.tasks.Delete(n)
	case cmdTodo, cmdDeadline, cmdEvent:
		task, err := decode.Task(line)
		if err != nil {
			return "", err
		}
		return s.tasks.Add(task)
	case cmdDate:
		date, err := decode.Date(line)
		if err != nil {
			return "", err
		}
		return s.tasks.ShowByDate(date), nil
	case cmdFind:
		query, err := decode.FindQuery(line)
		if err != nil {
			return "", err
		}
		return s.tasks.Find(query), nil
	case cmdExpense:
		expense, err := decode.Expense(line)
		if err != nil {
			return "", err
		}
		return s.expenses.Add(expense)
	case cmdShowExpense:
		return s.showExpenses(), nil
	case cmdDelExpense:
		n, err := decode.Index(line, s.expenses.NumStored())
		if err != nil {
			return "", err
		}
		return s.expenses.Delete(n)
	default:
		return "", &cli.UnrecognizedCommandError{Input: keyword}
	}
}

// showExpenses lists expenses followed by their total.
func (s *Session) showExpenses() string {
	text := s.expenses.ShowList()
	if s.expenses.NumStored() == 0 {
		return text
	}
	total := 0
	for _, e := range s.expenses.Items() {
		total += e.Amount
	}
	return fmt.Sprintf("%s\nTotal: %s", text, cli.Yellow(fmt.Sprintf("$%d", total)))
}

// Close releases both stores without the bye reply. It is a no-op unless the
// session is running, so it is safe to defer.
func (s *Session) Close() error {
	if s.state != StateRunning {
		return nil
	}
	return s.shutdown()
}

func (s *Session) shutdown() error {
	s.state = StateTerminated
	err := errors.Join(s.tasks.Close(), s.expenses.Close())
	if err != nil {
		s.log.Error("failed to close stores", log.FieldError, err)
		return err
	}
	s.log.Info("session ended")
	return nil
}
