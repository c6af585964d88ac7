package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/ptm-go/internal/registry"
	"github.com/nibzard/ptm-go/internal/task"
)

// RunTUI starts the full-screen UI over store. The program exits when the
// user quits or ctx is cancelled.
func RunTUI(ctx context.Context, store Store, filter registry.Filter) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	return runProgram(ctx, newTUIModel(store, filter))
}

func runProgram(ctx context.Context, model *tuiModel) error {
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type inputMode int

const (
	modeList inputMode = iota
	modeAddDescription
	modeAddPriority
	modeEditDescription
	modeEditPriority
)

type tuiModel struct {
	store    Store
	filter   registry.Filter
	tasks    []task.Snapshot
	counts   registry.Counts
	cursor   int
	mode     inputMode
	input    textinput.Model
	showHelp bool

	// staged values of a multi-step add or edit
	draftDescription *string
	editing          task.Snapshot

	status    string
	statusErr bool
}

func newTUIModel(store Store, filter registry.Filter) *tuiModel {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 60

	m := &tuiModel{
		store:  store,
		filter: filter,
		input:  ti,
	}
	m.refresh()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.mode == modeList {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if m.mode != modeList {
		return m.updateInput(key)
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "?", "h":
		m.showHelp = !m.showHelp
	case "f":
		m.cycleFilter()
	case "a":
		m.draftDescription = nil
		return m, m.startInput(modeAddDescription, "Description: ", "")
	case "c":
		if t, ok := m.selected(); ok {
			m.report(m.store.Complete(t.ID), fmt.Sprintf("Task %d marked as completed.", t.ID))
		}
	case "d", "x":
		if t, ok := m.selected(); ok {
			m.report(m.store.Remove(t.ID), fmt.Sprintf("Task %d removed successfully.", t.ID))
		}
	case "e":
		if t, ok := m.selected(); ok {
			m.editing = t
			m.draftDescription = nil
			return m, m.startInput(modeEditDescription, "New description: ", t.Description)
		}
	}
	return m, nil
}

func (m *tuiModel) updateInput(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.endInput()
		m.setStatus("Cancelled.", false)
		return m, nil
	case tea.KeyEnter:
		return m, m.submit(strings.TrimSpace(m.input.Value()))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

// submit advances the current multi-step prompt with value.
func (m *tuiModel) submit(value string) tea.Cmd {
	switch m.mode {
	case modeAddDescription:
		m.draftDescription = &value
		return m.startInput(modeAddPriority, "Priority (1-5): ", "")

	case modeAddPriority:
		p, err := strconv.Atoi(value)
		if err != nil || task.ValidatePriority(p) != nil {
			m.setStatus(fmt.Sprintf("Invalid priority. Please enter a number between %d and %d.",
				task.MinPriority, task.MaxPriority), true)
			m.input.Reset()
			return nil
		}
		_, err = m.store.Add(*m.draftDescription, p)
		m.endInput()
		m.report(err, "Task added successfully.")
		return nil

	case modeEditDescription:
		if value != "" && value != m.editing.Description {
			m.draftDescription = &value
		}
		return m.startInput(modeEditPriority, "New priority (1-5): ", strconv.Itoa(m.editing.Priority))

	case modeEditPriority:
		var priority *int
		invalid := false
		if value != "" {
			p, err := strconv.Atoi(value)
			if err != nil || task.ValidatePriority(p) != nil {
				invalid = true
				m.setStatus("Invalid priority. Keeping the current priority.", true)
			} else if p != m.editing.Priority {
				priority = &p
			}
		}
		description := m.draftDescription
		id := m.editing.ID
		m.endInput()
		if description == nil && priority == nil {
			if !invalid {
				m.setStatus("No changes made.", false)
			}
			return nil
		}
		m.report(m.store.Edit(id, description, priority), fmt.Sprintf("Task %d updated successfully.", id))
		return nil
	}
	return nil
}

func (m *tuiModel) startInput(mode inputMode, prompt, value string) tea.Cmd {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.Reset()
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *tuiModel) endInput() {
	m.mode = modeList
	m.input.Blur()
	m.input.Reset()
	m.draftDescription = nil
}

func (m *tuiModel) cycleFilter() {
	filters := registry.Filters()
	for i, f := range filters {
		if f == m.filter {
			m.filter = filters[(i+1)%len(filters)]
			break
		}
	}
	m.refresh()
}

func (m *tuiModel) selected() (task.Snapshot, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return task.Snapshot{}, false
	}
	return m.tasks[m.cursor], true
}

// report records the outcome of a registry call and reloads the listing.
func (m *tuiModel) report(err error, success string) {
	if err != nil {
		m.setStatus(err.Error(), true)
	} else {
		m.setStatus(success, false)
	}
	m.refresh()
}

func (m *tuiModel) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

func (m *tuiModel) refresh() {
	m.tasks = m.store.List(m.filter)
	m.counts = m.store.Counts()
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	writeOverview(&b, m.counts, m.filter)
	writeTasks(&b, m.tasks, m.cursor)
	if m.mode != modeList {
		b.WriteString(m.input.View() + "\n\n")
	}
	if m.status != "" {
		style := statusStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString(style.Render(m.status) + "\n\n")
	}
	writeFooter(&b)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Priority Task Manager") + "\n")
}

func writeOverview(b *strings.Builder, counts registry.Counts, filter registry.Filter) {
	b.WriteString(fmt.Sprintf("Total: %d  Completed: %d  Incomplete: %d  Filter: %s\n\n",
		counts.Total, counts.Completed, counts.Incomplete, filter))
}

func writeTasks(b *strings.Builder, tasks []task.Snapshot, cursor int) {
	if len(tasks) == 0 {
		b.WriteString("  No tasks found.\n\n")
		return
	}
	rows := make([]string, 0, len(tasks))
	for i, t := range tasks {
		rows = append(rows, formatTask(t, i == cursor))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	b.WriteString("\n\n")
}

func formatTask(t task.Snapshot, selected bool) string {
	check := " "
	if t.Completed {
		check = "x"
	}
	desc := t.Description
	if r := []rune(desc); len(r) > 60 {
		desc = string(r[:57]) + "..."
	}
	line := fmt.Sprintf("[%s] %s #%d %s", check, priorityStyle.Render(fmt.Sprintf("P%d", t.Priority)), t.ID, desc)
	switch {
	case selected:
		return "> " + selectedStyle.Render(line)
	case t.Completed:
		return "  " + completedStyle.Render(line)
	default:
		return "  " + line
	}
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  j/k, arrows  Move selection\n")
	b.WriteString("  a            Add task\n")
	b.WriteString("  c            Complete selected task\n")
	b.WriteString("  e            Edit selected task\n")
	b.WriteString("  d            Remove selected task\n")
	b.WriteString("  f            Cycle filter (all, completed, incomplete)\n")
	b.WriteString("  ?, h         Toggle this help screen\n")
	b.WriteString("  enter / esc  Submit / cancel a prompt\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(helpStyle.Render("a add | c complete | e edit | d remove | f filter | ? help | q quit") + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
