package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// TestIntegrationBackupRestoreWorkflow exercises the full cycle: snapshot,
// mutate, restore, and check the pre-restore safety backup.
func TestIntegrationBackupRestoreWorkflow(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "weekplan.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE subtasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		estimated_minutes INTEGER NOT NULL
	)`); err != nil {
		t.Fatalf("failed to create subtasks table: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE plans (
		week_start TEXT PRIMARY KEY,
		status TEXT NOT NULL
	)`); err != nil {
		t.Fatalf("failed to create plans table: %v", err)
	}
	if _, err := db.Exec(
		"INSERT INTO subtasks (id, title, estimated_minutes) VALUES (?, ?, ?)",
		"s1", "Outline report", 30,
	); err != nil {
		t.Fatalf("failed to insert subtask: %v", err)
	}
	if _, err := db.Exec(
		"INSERT INTO plans (week_start, status) VALUES (?, ?)", "2025-12-08", "planning",
	); err != nil {
		t.Fatalf("failed to insert plan: %v", err)
	}
	db.Close()

	mgr := NewManager(dbPath)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}

	db, err = sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := db.Exec(
		"INSERT INTO subtasks (id, title, estimated_minutes) VALUES (?, ?, ?)",
		"s2", "Draft body", 120,
	); err != nil {
		t.Fatalf("failed to insert second subtask: %v", err)
	}
	db.Close()

	if err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("failed to restore backup: %v", err)
	}

	db, err = sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database after restore: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM subtasks").Scan(&count); err != nil {
		t.Fatalf("failed to count subtasks after restore: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 subtask after restore, got %d", count)
	}

	var title string
	var estimate int
	if err := db.QueryRow(
		"SELECT title, estimated_minutes FROM subtasks WHERE id = ?", "s1",
	).Scan(&title, &estimate); err != nil {
		t.Fatalf("failed to query subtask after restore: %v", err)
	}
	if title != "Outline report" || estimate != 30 {
		t.Errorf("subtask mismatch after restore: title=%s estimate=%d", title, estimate)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	// Original plus the automatic pre-restore snapshot.
	if len(backups) < 2 {
		t.Errorf("expected at least 2 backups after restore, got %d", len(backups))
	}
}

func TestBackupWithNoStorage(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "nonexistent.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("expected error when backing up missing storage")
	}
}

func TestBackupDirectoryCreation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	os.RemoveAll(mgr.GetBackupDir())

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if _, err := os.Stat(mgr.GetBackupDir()); os.IsNotExist(err) {
		t.Error("backup directory was not created")
	}
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		t.Error("backup file was not created")
	}
}
