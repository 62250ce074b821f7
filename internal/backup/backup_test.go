package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "weekplan.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE blocks (
		id TEXT PRIMARY KEY,
		subtask_id TEXT NOT NULL,
		date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		status TEXT NOT NULL
	)`); err != nil {
		t.Fatalf("failed to create test table: %v", err)
	}
	for _, row := range [][]string{
		{"b1", "s1", "2025-12-08", "08:00", "09:00", "scheduled"},
		{"b2", "s2", "2025-12-08", "09:00", "10:30", "scheduled"},
	} {
		if _, err := db.Exec(
			"INSERT INTO blocks (id, subtask_id, date, start_time, end_time, status) VALUES (?, ?, ?, ?, ?, ?)",
			row[0], row[1], row[2], row[3], row[4], row[5],
		); err != nil {
			t.Fatalf("failed to insert test data: %v", err)
		}
	}

	return dbPath
}

func countBlocks(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open database %s: %v", path, err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM blocks").Scan(&count); err != nil {
		t.Fatalf("failed to query %s: %v", path, err)
	}
	return count
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		t.Fatalf("backup file was not created: %s", backupPath)
	}
	if got := countBlocks(t, backupPath); got != 2 {
		t.Errorf("expected 2 rows in backup, got %d", got)
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	for i := 0; i < MaxBackups+5; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
		// Unique timestamps need a short gap.
		time.Sleep(10 * time.Millisecond)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != MaxBackups {
		t.Errorf("expected %d backups after rotation, got %d", MaxBackups, len(backups))
	}

	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups not sorted newest first at index %d", i)
		}
	}
}

func TestListBackups_EmptyDir(t *testing.T) {
	mgr := NewManager(setupTestDB(t))

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected 0 backups initially, got %d", len(backups))
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := db.Exec(
		"INSERT INTO blocks (id, subtask_id, date, start_time, end_time, status) VALUES ('b3', 's3', '2025-12-09', '08:00', '09:00', 'scheduled')",
	); err != nil {
		t.Fatalf("failed to insert data: %v", err)
	}
	db.Close()

	if got := countBlocks(t, dbPath); got != 3 {
		t.Fatalf("expected 3 rows before restore, got %d", got)
	}

	if err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if got := countBlocks(t, dbPath); got != 2 {
		t.Errorf("expected 2 rows after restore, got %d", got)
	}
}

func TestRestoreBackupCreatesPreRestoreBackup(t *testing.T) {
	mgr := NewManager(setupTestDB(t))

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	before, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}

	if err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	after, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(after) != len(before)+1 {
		t.Errorf("expected %d backups after restore, got %d", len(before)+1, len(after))
	}
}

func TestRestoreBackup_RejectsCorruptFile(t *testing.T) {
	mgr := NewManager(setupTestDB(t))

	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	invalidPath := filepath.Join(mgr.GetBackupDir(), BackupFilePrefix+"20250101-0000.db")
	if err := os.WriteFile(invalidPath, []byte("not a database"), 0600); err != nil {
		t.Fatalf("failed to create invalid file: %v", err)
	}

	if err := mgr.RestoreBackup(invalidPath); err == nil {
		t.Error("RestoreBackup should reject a corrupt file")
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	mgr := NewManager(setupTestDB(t))

	paths := make(map[string]bool)
	for i := 0; i < 5; i++ {
		backupPath, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
		filename := filepath.Base(backupPath)
		if paths[filename] {
			t.Errorf("duplicate backup filename: %s", filename)
		}
		paths[filename] = true
	}
}

func TestJSONStorageBackup(t *testing.T) {
	jsonPath := filepath.Join(t.TempDir(), "weekplan.json")
	content := []byte(`{"version":1}`)
	if err := os.WriteFile(jsonPath, content, 0600); err != nil {
		t.Fatalf("failed to write json storage: %v", err)
	}

	mgr := NewManager(jsonPath)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if filepath.Ext(backupPath) != ".json" {
		t.Errorf("backup of json storage should keep the extension, got %s", backupPath)
	}
	got, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("backup content = %q, want %q", got, content)
	}
}
