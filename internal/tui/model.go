package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/weekplan/internal/capacity"
	"github.com/julianstephens/weekplan/internal/models"
	"github.com/julianstephens/weekplan/internal/storage"
	"github.com/julianstephens/weekplan/internal/timeutil"
	"github.com/julianstephens/weekplan/internal/tui/components/backlog"
	"github.com/julianstephens/weekplan/internal/tui/components/weekview"
	"github.com/julianstephens/weekplan/internal/validation"
)

type SessionState int

const (
	StateWeek SessionState = iota
	StateBacklog
	StatePickDay
	StateResolve
	StateConfirmCommit
	StateConfirmReplan
)

type Model struct {
	store storage.Provider
	state SessionState
	keys  KeyMap
	help  help.Model

	weekView weekview.Model
	backlog  backlog.Model

	weekStart time.Time
	profile   models.WorkProfile
	plan      models.WeeklyPlan
	week      capacity.WeekCapacity
	blocks    []models.TimeBlock
	commits   []models.ExternalCommitment
	subtasks  []models.Subtask
	items     []models.WorkItem

	pendingSubtask    *models.Subtask // subtask awaiting a day choice
	resolveQueue      []models.Subtask
	statusMsg         string
	validationWarning string
	quitting          bool
	width             int
	height            int
}

func NewModel(store storage.Provider) Model {
	m := Model{
		store:     store,
		state:     StateWeek,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		weekView:  weekview.New(0, 0),
		backlog:   backlog.New(0, 0),
		weekStart: timeutil.WeekStart(time.Now()),
	}

	m.refresh()
	return m
}

// refresh reloads everything for the current week and pushes it into the
// components.
func (m *Model) refresh() {
	profile, err := m.store.GetProfile()
	if err != nil {
		m.statusMsg = fmt.Sprintf("failed to load profile: %v", err)
		return
	}
	m.profile = profile

	startKey := timeutil.DateKey(m.weekStart)
	endKey := timeutil.DateKey(m.weekStart.AddDate(0, 0, 6))

	if m.blocks, err = m.store.GetBlocksInRange(startKey, endKey); err != nil {
		m.statusMsg = fmt.Sprintf("failed to load blocks: %v", err)
		return
	}
	if m.commits, err = m.store.GetCommitmentsInRange(startKey, endKey); err != nil {
		m.statusMsg = fmt.Sprintf("failed to load commitments: %v", err)
		return
	}
	if m.plan, err = m.store.GetWeeklyPlan(startKey); err != nil {
		m.statusMsg = fmt.Sprintf("failed to load plan: %v", err)
		return
	}
	if m.subtasks, err = m.store.GetAllSubtasks(); err != nil {
		m.statusMsg = fmt.Sprintf("failed to load subtasks: %v", err)
		return
	}
	if m.items, err = m.store.GetAllItems(); err != nil {
		m.statusMsg = fmt.Sprintf("failed to load items: %v", err)
		return
	}

	m.week = capacity.ForWeek(m.weekStart, m.profile, m.commits, m.blocks)
	m.weekView.SetWeek(m.week, m.blocks, m.commits, m.subtasks)
	m.backlog.SetSubtasks(m.subtasks, m.items)
	m.updateValidationStatus()
}

func (m Model) overflowSubtasks() []models.Subtask {
	var out []models.Subtask
	for _, s := range m.subtasks {
		if s.Status == models.SubtaskStatusOverflow {
			out = append(out, s)
		}
	}
	return out
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateWeek:
		keys = append(keys, m.keys.Commit, m.keys.Replan, m.keys.PrevWeek, m.keys.NextWeek)
	case StateBacklog:
		keys = append(keys, m.keys.Resolve)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.Enter}
	actions := []key.Binding{m.keys.Commit, m.keys.Replan, m.keys.Resolve, m.keys.PrevWeek, m.keys.NextWeek}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// updateValidationStatus runs validation and updates the warning message
func (m *Model) updateValidationStatus() {
	validator := validation.New()

	var all []validation.Conflict
	all = append(all, validator.ValidateProfile(m.profile).Conflicts...)
	all = append(all, validator.ValidateItems(m.items).Conflicts...)
	all = append(all, validator.ValidateSubtasks(m.subtasks, m.blocks).Conflicts...)
	all = append(all, validator.ValidateBlocks(m.blocks).Conflicts...)

	if len(all) > 0 {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(all))
	} else {
		m.validationWarning = ""
	}
}
