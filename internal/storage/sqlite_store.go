package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/julianstephens/weekplan/internal/models"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS profile (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	priority_rank INTEGER NOT NULL DEFAULT 0,
	priority TEXT NOT NULL DEFAULT '',
	due_date TEXT NOT NULL DEFAULT '',
	due_time TEXT NOT NULL DEFAULT '',
	recurring TEXT NOT NULL DEFAULT '',
	recurring_interval INTEGER NOT NULL DEFAULT 0,
	tags TEXT NOT NULL DEFAULT '[]',
	completed_at TEXT
);

CREATE TABLE IF NOT EXISTS subtasks (
	id TEXT PRIMARY KEY,
	work_item_id TEXT NOT NULL,
	parent_subtask_id TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL,
	definition_of_done TEXT NOT NULL DEFAULT '',
	estimated_minutes INTEGER NOT NULL,
	status TEXT NOT NULL,
	block_id TEXT NOT NULL DEFAULT '',
	actual_minutes INTEGER NOT NULL DEFAULT 0,
	completed_at TEXT,
	progress_note TEXT NOT NULL DEFAULT '',
	rationale TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS blocks (
	id TEXT PRIMARY KEY,
	subtask_id TEXT NOT NULL,
	date TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	status TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_blocks_date ON blocks(date);

CREATE TABLE IF NOT EXISTS commitments (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	date TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_commitments_date ON commitments(date);

CREATE TABLE IF NOT EXISTS plans (
	id TEXT PRIMARY KEY,
	week_start TEXT NOT NULL UNIQUE,
	status TEXT NOT NULL,
	committed_at TEXT,
	reflection_notes TEXT NOT NULL DEFAULT ''
);
`

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if _, err := s.GetProfile(); err != nil {
		if err := s.SaveProfile(defaultProfile()); err != nil {
			return fmt.Errorf("failed to save default profile: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'weekplan init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	// Schema creation is idempotent, so reopening an older database picks
	// up any tables added since it was initialized.
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) GetProfile() (models.WorkProfile, error) {
	rows, err := s.db.Query("SELECT key, value FROM profile")
	if err != nil {
		return models.WorkProfile{}, err
	}
	defer rows.Close()

	profile := models.WorkProfile{}
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.WorkProfile{}, err
		}
		switch key {
		case "day_start":
			profile.DayStart = value
		case "day_end":
			profile.DayEnd = value
		case "buffer_fraction":
			if _, err := fmt.Sscanf(value, "%f", &profile.BufferFraction); err != nil {
				return models.WorkProfile{}, fmt.Errorf("parsing buffer_fraction: %w", err)
			}
		case "weekdays":
			var days []int
			if err := json.Unmarshal([]byte(value), &days); err != nil {
				return models.WorkProfile{}, fmt.Errorf("parsing weekdays: %w", err)
			}
			for _, d := range days {
				profile.Weekdays = append(profile.Weekdays, time.Weekday(d))
			}
		}
		count++
	}

	if count == 0 {
		return models.WorkProfile{}, fmt.Errorf("profile not found")
	}

	return profile, nil
}

func (s *SQLiteStore) SaveProfile(profile models.WorkProfile) error {
	days := make([]int, 0, len(profile.Weekdays))
	for _, d := range profile.Weekdays {
		days = append(days, int(d))
	}
	daysJSON, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("failed to marshal weekdays: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO profile (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.Exec("day_start", profile.DayStart); err != nil {
		return err
	}
	if _, err := stmt.Exec("day_end", profile.DayEnd); err != nil {
		return err
	}
	if _, err := stmt.Exec("buffer_fraction", fmt.Sprintf("%g", profile.BufferFraction)); err != nil {
		return err
	}
	if _, err := stmt.Exec("weekdays", string(daysJSON)); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) AddItem(item models.WorkItem) error {
	return s.UpdateItem(item)
}

const itemColumns = `id, title, description, status, priority_rank, priority, due_date, due_time,
	recurring, recurring_interval, tags, completed_at`

func scanItem(row interface{ Scan(...any) error }) (models.WorkItem, error) {
	var item models.WorkItem
	var tagsJSON string
	var completedAt sql.NullString

	err := row.Scan(
		&item.ID, &item.Title, &item.Description, &item.Status, &item.PriorityRank, &item.Priority,
		&item.DueDate, &item.DueTime, &item.Recurring, &item.RecurringN, &tagsJSON, &completedAt,
	)
	if err != nil {
		return models.WorkItem{}, err
	}

	if completedAt.Valid {
		item.CompletedAt = &completedAt.String
	}
	if tagsJSON != "" && tagsJSON != "[]" {
		if err := json.Unmarshal([]byte(tagsJSON), &item.Tags); err != nil {
			return models.WorkItem{}, fmt.Errorf("failed to parse tags for item %s: %w", item.ID, err)
		}
	}
	return item, nil
}

func (s *SQLiteStore) GetItem(id string) (models.WorkItem, error) {
	row := s.db.QueryRow("SELECT "+itemColumns+" FROM items WHERE id = ?", id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return models.WorkItem{}, fmt.Errorf("work item not found: %s", id)
	}
	return item, err
}

func (s *SQLiteStore) GetAllItems() ([]models.WorkItem, error) {
	rows, err := s.db.Query("SELECT " + itemColumns + " FROM items ORDER BY priority_rank, title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.WorkItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) UpdateItem(item models.WorkItem) error {
	tagsJSON, err := json.Marshal(item.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}
	if item.Tags == nil {
		tagsJSON = []byte("[]")
	}

	var completedAt sql.NullString
	if item.CompletedAt != nil {
		completedAt = sql.NullString{String: *item.CompletedAt, Valid: true}
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Title, item.Description, item.Status, item.PriorityRank, item.Priority,
		item.DueDate, item.DueTime, item.Recurring, item.RecurringN, string(tagsJSON), completedAt,
	)
	return err
}

func (s *SQLiteStore) DeleteItem(id string) error {
	res, err := s.db.Exec("DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res, "work item", id)
}

func (s *SQLiteStore) AddSubtask(sub models.Subtask) error {
	return s.UpdateSubtask(sub)
}

const subtaskColumns = `id, work_item_id, parent_subtask_id, title, definition_of_done,
	estimated_minutes, status, block_id, actual_minutes, completed_at, progress_note, rationale`

func scanSubtask(row interface{ Scan(...any) error }) (models.Subtask, error) {
	var sub models.Subtask
	var completedAt sql.NullString

	err := row.Scan(
		&sub.ID, &sub.WorkItemID, &sub.ParentSubtaskID, &sub.Title, &sub.DefinitionOfDone,
		&sub.EstimatedMinutes, &sub.Status, &sub.BlockID, &sub.ActualMinutes, &completedAt,
		&sub.ProgressNote, &sub.Rationale,
	)
	if err != nil {
		return models.Subtask{}, err
	}
	if completedAt.Valid {
		sub.CompletedAt = &completedAt.String
	}
	return sub, nil
}

func (s *SQLiteStore) GetSubtask(id string) (models.Subtask, error) {
	row := s.db.QueryRow("SELECT "+subtaskColumns+" FROM subtasks WHERE id = ?", id)
	sub, err := scanSubtask(row)
	if err == sql.ErrNoRows {
		return models.Subtask{}, fmt.Errorf("subtask not found: %s", id)
	}
	return sub, err
}

func (s *SQLiteStore) GetAllSubtasks() ([]models.Subtask, error) {
	return s.querySubtasks("SELECT " + subtaskColumns + " FROM subtasks")
}

func (s *SQLiteStore) GetSubtasksForItem(itemID string) ([]models.Subtask, error) {
	return s.querySubtasks("SELECT "+subtaskColumns+" FROM subtasks WHERE work_item_id = ?", itemID)
}

func (s *SQLiteStore) querySubtasks(query string, args ...any) ([]models.Subtask, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.Subtask
	for rows.Next() {
		sub, err := scanSubtask(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *SQLiteStore) UpdateSubtask(sub models.Subtask) error {
	var completedAt sql.NullString
	if sub.CompletedAt != nil {
		completedAt = sql.NullString{String: *sub.CompletedAt, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO subtasks (`+subtaskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.WorkItemID, sub.ParentSubtaskID, sub.Title, sub.DefinitionOfDone,
		sub.EstimatedMinutes, sub.Status, sub.BlockID, sub.ActualMinutes, completedAt,
		sub.ProgressNote, sub.Rationale,
	)
	return err
}

func (s *SQLiteStore) DeleteSubtask(id string) error {
	res, err := s.db.Exec("DELETE FROM subtasks WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res, "subtask", id)
}

func (s *SQLiteStore) AddBlock(block models.TimeBlock) error {
	return s.UpdateBlock(block)
}

func (s *SQLiteStore) GetBlock(id string) (models.TimeBlock, error) {
	row := s.db.QueryRow(
		"SELECT id, subtask_id, date, start_time, end_time, status FROM blocks WHERE id = ?", id)

	var b models.TimeBlock
	err := row.Scan(&b.ID, &b.SubtaskID, &b.Date, &b.Start, &b.End, &b.Status)
	if err == sql.ErrNoRows {
		return models.TimeBlock{}, fmt.Errorf("time block not found: %s", id)
	}
	return b, err
}

func (s *SQLiteStore) GetBlocksInRange(startDate, endDate string) ([]models.TimeBlock, error) {
	rows, err := s.db.Query(`
		SELECT id, subtask_id, date, start_time, end_time, status
		FROM blocks WHERE date >= ? AND date <= ? ORDER BY date, start_time`,
		startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []models.TimeBlock
	for rows.Next() {
		var b models.TimeBlock
		if err := rows.Scan(&b.ID, &b.SubtaskID, &b.Date, &b.Start, &b.End, &b.Status); err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func (s *SQLiteStore) UpdateBlock(block models.TimeBlock) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO blocks (id, subtask_id, date, start_time, end_time, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		block.ID, block.SubtaskID, block.Date, block.Start, block.End, block.Status,
	)
	return err
}

func (s *SQLiteStore) DeleteBlock(id string) error {
	res, err := s.db.Exec("DELETE FROM blocks WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res, "time block", id)
}

func (s *SQLiteStore) AddCommitment(c models.ExternalCommitment) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO commitments (id, title, date, start_time, end_time)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Title, c.Date, c.Start, c.End,
	)
	return err
}

func (s *SQLiteStore) GetCommitmentsInRange(startDate, endDate string) ([]models.ExternalCommitment, error) {
	rows, err := s.db.Query(`
		SELECT id, title, date, start_time, end_time
		FROM commitments WHERE date >= ? AND date <= ? ORDER BY date, start_time`,
		startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commitments []models.ExternalCommitment
	for rows.Next() {
		var c models.ExternalCommitment
		if err := rows.Scan(&c.ID, &c.Title, &c.Date, &c.Start, &c.End); err != nil {
			return nil, err
		}
		commitments = append(commitments, c)
	}
	return commitments, rows.Err()
}

func (s *SQLiteStore) DeleteCommitment(id string) error {
	res, err := s.db.Exec("DELETE FROM commitments WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res, "commitment", id)
}

func (s *SQLiteStore) GetWeeklyPlan(weekStart string) (models.WeeklyPlan, error) {
	row := s.db.QueryRow(
		"SELECT id, week_start, status, committed_at, reflection_notes FROM plans WHERE week_start = ?",
		weekStart)

	var plan models.WeeklyPlan
	var committedAt sql.NullString
	err := row.Scan(&plan.ID, &plan.WeekStart, &plan.Status, &committedAt, &plan.ReflectionNotes)
	if err == sql.ErrNoRows {
		// Plans are created lazily on first view of a week.
		plan = newWeeklyPlan(weekStart)
		if err := s.SaveWeeklyPlan(plan); err != nil {
			return models.WeeklyPlan{}, err
		}
		return plan, nil
	}
	if err != nil {
		return models.WeeklyPlan{}, err
	}
	if committedAt.Valid {
		plan.CommittedAt = &committedAt.String
	}
	return plan, nil
}

func (s *SQLiteStore) SaveWeeklyPlan(plan models.WeeklyPlan) error {
	var committedAt sql.NullString
	if plan.CommittedAt != nil {
		committedAt = sql.NullString{String: *plan.CommittedAt, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO plans (id, week_start, status, committed_at, reflection_notes)
		VALUES (?, ?, ?, ?, ?)`,
		plan.ID, plan.WeekStart, plan.Status, committedAt, plan.ReflectionNotes,
	)
	return err
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s not found: %s", kind, id)
	}
	return nil
}
