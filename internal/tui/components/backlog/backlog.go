package backlog

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/weekplan/internal/models"
	"github.com/julianstephens/weekplan/internal/timeutil"
)

type ScheduleSubtaskMsg struct {
	Subtask models.Subtask
}

type UnscheduleSubtaskMsg struct {
	Subtask models.Subtask
}

type Item struct {
	Subtask models.Subtask
	Parent  string // owning work item title
}

func (i Item) Title() string {
	switch i.Subtask.Status {
	case models.SubtaskStatusOverflow:
		return "⚠ " + i.Subtask.Title
	case models.SubtaskStatusScheduled:
		return "● " + i.Subtask.Title
	default:
		return i.Subtask.Title
	}
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s | %s", timeutil.FormatDuration(i.Subtask.EstimatedMinutes), i.Subtask.Status)
	if i.Parent != "" {
		desc += " | " + i.Parent
	}
	return desc
}

func (i Item) FilterValue() string { return i.Subtask.Title }

type KeyMap struct {
	Schedule   key.Binding
	Unschedule key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Schedule: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "schedule"),
		),
		Unschedule: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unschedule"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Backlog"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // help is handled globally in the main model

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Schedule, keys.Unschedule}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Schedule, keys.Unschedule}
	}

	return Model{list: l, keys: keys}
}

// SetSubtasks replaces the list contents. Completed subtasks are omitted;
// the backlog shows only work that could still be (re)scheduled.
func (m *Model) SetSubtasks(subtasks []models.Subtask, items []models.WorkItem) {
	titles := make(map[string]string, len(items))
	for _, it := range items {
		titles[it.ID] = it.Title
	}

	var listItems []list.Item
	for _, s := range subtasks {
		if s.Status == models.SubtaskStatusCompleted {
			continue
		}
		listItems = append(listItems, Item{Subtask: s, Parent: titles[s.WorkItemID]})
	}
	m.list.SetItems(listItems)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Schedule):
			if i, ok := m.list.SelectedItem().(Item); ok {
				if i.Subtask.Status != models.SubtaskStatusScheduled {
					return m, func() tea.Msg { return ScheduleSubtaskMsg{Subtask: i.Subtask} }
				}
			}
		case key.Matches(msg, m.keys.Unschedule):
			if i, ok := m.list.SelectedItem().(Item); ok {
				if i.Subtask.Status == models.SubtaskStatusScheduled {
					return m, func() tea.Msg { return UnscheduleSubtaskMsg{Subtask: i.Subtask} }
				}
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No subtasks yet.\n  Add items and decompose them first."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
