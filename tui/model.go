// Package tui renders a client.Board in the terminal with bubbletea.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"task-manager/client"
	"task-manager/models"
)

type mode int

const (
	modeList mode = iota
	modeConfirmDelete
	modeForm
)

type field int

const (
	fieldTitle field = iota
	fieldDescription
	fieldDueDate
	fieldPriority
	fieldCategory
	fieldStatus
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Description", "Due (YYYY-MM-DD)", "Priority", "Category", "Status"}

var priorities = []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}

// Model is the bubbletea model. Board calls run synchronously inside
// Update, so the board is only ever touched from the program loop.
type Model struct {
	ctx    context.Context
	board  *client.Board
	title  string
	mode   mode
	cursor int
	form   client.Form
	field  field
	alert  string
}

func New(ctx context.Context, board *client.Board, title string) *Model {
	return &Model{ctx: ctx, board: board, title: title}
}

// Run starts the program on the alternate screen until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, m *Model) error {
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	m.report(m.board.Refresh(m.ctx))
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case modeConfirmDelete:
		m.updateConfirm(key)
	case modeForm:
		m.updateForm(key)
	default:
		if key.String() == "q" {
			return m, tea.Quit
		}
		m.updateList(key)
	}
	return m, nil
}

func (m *Model) updateList(key tea.KeyMsg) {
	tasks := m.board.Tasks()
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}
	case "f", "tab":
		m.alert = ""
		m.report(m.board.SetFilter(m.ctx, m.board.Filter().Next()))
	case "r":
		m.alert = ""
		m.report(m.board.Refresh(m.ctx))
	case "a":
		m.openForm(client.EmptyForm())
	case "e", "enter":
		if t, ok := m.selected(); ok {
			m.openForm(client.FormFromTask(t))
		}
	case " ", "t":
		if t, ok := m.selected(); ok {
			m.alert = ""
			m.report(m.board.Toggle(m.ctx, t.ID))
		}
	case "d", "x":
		if _, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
		}
	}
}

func (m *Model) updateConfirm(key tea.KeyMsg) {
	m.mode = modeList
	if key.String() != "y" && key.String() != "Y" {
		return
	}
	if t, ok := m.selected(); ok {
		m.alert = ""
		m.report(m.board.Remove(m.ctx, t.ID))
	}
}

func (m *Model) updateForm(key tea.KeyMsg) {
	switch key.Type {
	case tea.KeyEsc:
		m.mode = modeList
		m.alert = ""
		return
	case tea.KeyEnter:
		if err := m.board.Submit(m.ctx, m.form); err != nil {
			m.alert = client.Describe(err)
			return
		}
		m.alert = ""
		m.mode = modeList
		m.clampCursor()
		return
	case tea.KeyTab, tea.KeyDown:
		m.field = (m.field + 1) % fieldCount
		return
	case tea.KeyShiftTab, tea.KeyUp:
		m.field = (m.field + fieldCount - 1) % fieldCount
		return
	}

	switch m.field {
	case fieldPriority:
		if key.Type == tea.KeyLeft || key.Type == tea.KeyRight || key.Type == tea.KeySpace {
			m.form.Priority = cyclePriority(m.form.Priority, key.Type == tea.KeyLeft)
		}
	case fieldStatus:
		if key.Type == tea.KeyLeft || key.Type == tea.KeyRight || key.Type == tea.KeySpace {
			m.form.Status = m.form.Status.Toggled()
		}
	default:
		text := m.text()
		switch key.Type {
		case tea.KeyBackspace:
			if r := []rune(*text); len(r) > 0 {
				*text = string(r[:len(r)-1])
			}
		case tea.KeySpace:
			*text += " "
		case tea.KeyRunes:
			*text += string(key.Runes)
		}
	}
}

func (m *Model) text() *string {
	switch m.field {
	case fieldDescription:
		return &m.form.Description
	case fieldDueDate:
		return &m.form.DueDate
	case fieldCategory:
		return &m.form.Category
	}
	return &m.form.Title
}

func cyclePriority(p models.Priority, back bool) models.Priority {
	i := 1
	for j, v := range priorities {
		if v == p {
			i = j
		}
	}
	if back {
		i = (i + len(priorities) - 1) % len(priorities)
	} else {
		i = (i + 1) % len(priorities)
	}
	return priorities[i]
}

func (m *Model) openForm(f client.Form) {
	m.form = f
	m.field = fieldTitle
	m.alert = ""
	m.mode = modeForm
}

func (m *Model) selected() (models.Task, bool) {
	tasks := m.board.Tasks()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return models.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *Model) clampCursor() {
	if n := len(m.board.Tasks()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) report(err error) {
	if err != nil {
		m.alert = client.Describe(err)
	}
	m.clampCursor()
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.title + "\n")
	b.WriteString(strings.Repeat("=", len(m.title)) + "\n\n")

	s := m.board.Summary()
	b.WriteString(fmt.Sprintf("All: %d  Pending: %d  Completed: %d    Filter: %s\n\n",
		s.Total, s.Pending, s.Completed, m.board.Filter()))

	if m.mode == modeForm {
		m.writeForm(&b)
	} else {
		m.writeList(&b)
	}

	if m.alert != "" {
		b.WriteString("\n! " + m.alert + "\n")
	}
	b.WriteString("\n" + m.help() + "\n")
	return b.String()
}

func (m *Model) writeList(b *strings.Builder) {
	tasks := m.board.Tasks()
	if len(tasks) == 0 {
		b.WriteString("  No tasks.\n")
		return
	}
	for i, t := range tasks {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}
		check := "[ ]"
		if t.Status == models.StatusCompleted {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s %-30s %-6s", cursor, check, t.Title, t.Priority)
		if t.Category != "" {
			line += "  #" + t.Category
		}
		if t.DueDate != nil {
			line += "  due " + t.DueDate.Format("2006-01-02")
		}
		b.WriteString(strings.TrimRight(line, " ") + "\n")
		if i == m.cursor && t.Description != "" {
			b.WriteString("        " + t.Description + "\n")
		}
	}
	if m.mode == modeConfirmDelete {
		if t, ok := m.selected(); ok {
			b.WriteString(fmt.Sprintf("\nDelete %q? (y/n)\n", t.Title))
		}
	}
}

func (m *Model) writeForm(b *strings.Builder) {
	heading := "New task"
	if m.form.Editing() {
		heading = "Edit task"
	}
	b.WriteString(heading + "\n\n")

	values := [fieldCount]string{
		m.form.Title,
		m.form.Description,
		m.form.DueDate,
		string(m.form.Priority),
		m.form.Category,
		string(m.form.Status),
	}
	for f := field(0); f < fieldCount; f++ {
		marker := " "
		if f == m.field {
			marker = ">"
		}
		b.WriteString(fmt.Sprintf("%s %-18s %s\n", marker, fieldLabels[f]+":", values[f]))
	}
}

func (m *Model) help() string {
	switch m.mode {
	case modeForm:
		return "tab/↓ next field • shift+tab/↑ previous • ←/→ change choice • enter save • esc cancel"
	case modeConfirmDelete:
		return "y confirm • any other key cancels"
	}
	return "↑/↓ move • a add • e edit • space toggle • d delete • f filter • r refresh • q quit"
}
