package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/ptm-go/internal/registry"
	"github.com/nibzard/ptm-go/internal/render"
	"github.com/nibzard/ptm-go/internal/task"
)

// ShellOption configures a Shell.
type ShellOption func(*Shell)

// WithFormat sets the format used for task listings.
func WithFormat(f render.Format) ShellOption {
	return func(s *Shell) {
		s.format = f
	}
}

// WithShellLogger sets the logger for operation failures.
func WithShellLogger(logger *log.Logger) ShellOption {
	return func(s *Shell) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Shell is the numbered-menu front end. It reads one line per prompt and
// writes all prompts and results to out.
type Shell struct {
	store  Store
	in     io.Reader
	out    io.Writer
	format render.Format
	logger *log.Logger

	lines      <-chan string
	done       <-chan struct{}
	errc       chan error
	readerDone chan struct{}
}

// NewShell creates a shell reading from in and writing to out.
func NewShell(store Store, in io.Reader, out io.Writer, opts ...ShellOption) *Shell {
	s := &Shell{
		store:  store,
		in:     in,
		out:    out,
		format: render.FormatText,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run shows the menu until the user quits, input ends, or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	// cancel releases the reader when the session ends first
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.done = ctx.Done()
	s.startReader()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.printMenu()
		choice, err := s.readLine()
		if err != nil {
			return s.finish(err)
		}

		switch choice {
		case "1":
			err = s.addTask()
		case "2":
			err = s.listTasks()
		case "3":
			err = s.completeTask()
		case "4":
			err = s.editTask()
		case "5":
			err = s.removeTask()
		case "6":
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid choice. Please try again.")
		}
		if err != nil {
			return s.finish(err)
		}
		fmt.Fprintln(s.out)
	}
}

// finish ends the session. End of input is a normal exit.
func (s *Shell) finish(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, "Goodbye!")
		return nil
	}
	return err
}

func (s *Shell) printMenu() {
	fmt.Fprintln(s.out, "Priority Task Manager")
	fmt.Fprintln(s.out, "1. Add Task")
	fmt.Fprintln(s.out, "2. List Tasks")
	fmt.Fprintln(s.out, "3. Complete Task")
	fmt.Fprintln(s.out, "4. Edit Task")
	fmt.Fprintln(s.out, "5. Remove Task")
	fmt.Fprintln(s.out, "6. Quit")
	fmt.Fprint(s.out, "Enter your choice: ")
}

func (s *Shell) addTask() error {
	description, err := s.prompt("Enter task description: ")
	if err != nil {
		return err
	}
	priority, err := s.promptPriority("Enter priority (1-5, 5 being highest): ")
	if err != nil {
		return err
	}
	if _, err := s.store.Add(description, priority); err != nil {
		s.logger.Warn("add failed", "err", err)
		fmt.Fprintf(s.out, "Failed to add task: %v\n", err)
		return nil
	}
	fmt.Fprintln(s.out, "Task added successfully.")
	return nil
}

func (s *Shell) listTasks() error {
	filter, err := s.promptFilter()
	if err != nil {
		return err
	}
	return render.Tasks(s.out, s.format, s.store.List(filter))
}

func (s *Shell) completeTask() error {
	id, err := s.promptNumber("Enter task ID to mark as completed: ")
	if err != nil {
		return err
	}
	if err := s.store.Complete(id); err != nil {
		s.logger.Warn("complete failed", "id", id, "err", err)
		fmt.Fprintf(s.out, "Failed to complete task: %v\n", err)
		return nil
	}
	fmt.Fprintf(s.out, "Task %d marked as completed.\n", id)
	return nil
}

func (s *Shell) editTask() error {
	id, err := s.promptNumber("Enter task ID to edit: ")
	if err != nil {
		return err
	}
	description, err := s.promptOptional("Enter new description (leave blank to keep current): ")
	if err != nil {
		return err
	}
	priority, err := s.promptOptionalPriority("Enter new priority (1-5, leave blank to keep current): ")
	if err != nil {
		return err
	}
	if description == nil && priority == nil {
		fmt.Fprintln(s.out, "No changes made.")
		return nil
	}
	if err := s.store.Edit(id, description, priority); err != nil {
		s.logger.Warn("edit failed", "id", id, "err", err)
		fmt.Fprintf(s.out, "Failed to update task: %v\n", err)
		return nil
	}
	fmt.Fprintf(s.out, "Task %d updated successfully.\n", id)
	return nil
}

func (s *Shell) removeTask() error {
	id, err := s.promptNumber("Enter task ID to remove: ")
	if err != nil {
		return err
	}
	if err := s.store.Remove(id); err != nil {
		s.logger.Warn("remove failed", "id", id, "err", err)
		fmt.Fprintf(s.out, "Failed to remove task: %v\n", err)
		return nil
	}
	fmt.Fprintf(s.out, "Task %d removed successfully.\n", id)
	return nil
}

// startReader feeds input lines to s.lines so prompts can be interrupted.
func (s *Shell) startReader() {
	lines := make(chan string)
	s.lines = lines
	s.errc = make(chan error, 1)
	s.readerDone = make(chan struct{})
	go func() {
		defer close(s.readerDone)
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-s.done:
				return
			}
		}
		if err := scanner.Err(); err != nil {
			s.errc <- fmt.Errorf("read input: %w", err)
		}
	}()
}

// readLine returns the next trimmed input line, or io.EOF when input ends.
func (s *Shell) readLine() (string, error) {
	select {
	case <-s.done:
		return "", context.Canceled
	case line, ok := <-s.lines:
		if !ok {
			select {
			case err := <-s.errc:
				return "", err
			default:
				return "", io.EOF
			}
		}
		return strings.TrimSpace(line), nil
	}
}

func (s *Shell) prompt(text string) (string, error) {
	fmt.Fprint(s.out, text)
	return s.readLine()
}

func (s *Shell) promptOptional(text string) (*string, error) {
	line, err := s.prompt(text)
	if err != nil || line == "" {
		return nil, err
	}
	return &line, nil
}

// promptNumber re-prompts until a non-negative integer is entered.
func (s *Shell) promptNumber(text string) (int, error) {
	for {
		line, err := s.prompt(text)
		if err != nil {
			return 0, err
		}
		n, err := strconv.ParseUint(line, 10, 31)
		if err == nil {
			return int(n), nil
		}
		fmt.Fprintln(s.out, "Invalid input. Please enter a number.")
	}
}

// promptPriority re-prompts until a number in the valid priority range is
// entered.
func (s *Shell) promptPriority(text string) (int, error) {
	for {
		p, err := s.promptNumber(text)
		if err != nil {
			return 0, err
		}
		if task.ValidatePriority(p) == nil {
			return p, nil
		}
		fmt.Fprintf(s.out, "Invalid priority. Please enter a number between %d and %d.\n",
			task.MinPriority, task.MaxPriority)
	}
}

// promptOptionalPriority accepts a blank line as "keep current". Anything
// else outside the valid range is reported and treated as blank.
func (s *Shell) promptOptionalPriority(text string) (*int, error) {
	line, err := s.promptOptional(text)
	if err != nil || line == nil {
		return nil, err
	}
	p, convErr := strconv.Atoi(*line)
	if convErr != nil || task.ValidatePriority(p) != nil {
		fmt.Fprintln(s.out, "Invalid priority. Keeping the current priority.")
		return nil, nil
	}
	return &p, nil
}

func (s *Shell) promptFilter() (registry.Filter, error) {
	fmt.Fprintln(s.out, "1. All tasks")
	fmt.Fprintln(s.out, "2. Completed tasks")
	fmt.Fprintln(s.out, "3. Incomplete tasks")

	choice, err := s.promptNumber("Enter your choice: ")
	if err != nil {
		return registry.FilterAll, err
	}
	filters := registry.Filters()
	if choice < 1 || choice > len(filters) {
		fmt.Fprintln(s.out, "Invalid choice. Listing all tasks.")
		return registry.FilterAll, nil
	}
	return filters[choice-1], nil
}
