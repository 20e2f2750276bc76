package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/elliotBraem/near-protocol-rewards/services/validation/common"
	"github.com/elliotBraem/near-protocol-rewards/validator"
	_ "github.com/mattn/go-sqlite3"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const minCleanupIntervalInSeconds = 60

var log = logger.GetOrCreate("storage")

// sqliteStorage is the sqlite implementation for snapshot storage
type sqliteStorage struct {
	db               *sql.DB
	retentionSeconds int
	historySize      int
	cancelFunc       context.CancelFunc
	wg               sync.WaitGroup
}

// NewSQLiteStorage creates the database, schema, and starts the retention cleaner
func NewSQLiteStorage(dbPath string, retentionSeconds int, historySize int) (*sqliteStorage, error) {
	if historySize < 1 {
		return nil, fmt.Errorf("invalid history size %d", historySize)
	}

	err := prepareDirectories(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial empty DB file: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps :memory: databases shared and serializes the writers
	db.SetMaxOpenConns(1)

	err = createSchema(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &sqliteStorage{
		db:               db,
		retentionSeconds: retentionSeconds,
		historySize:      historySize,
		cancelFunc:       cancel,
	}

	s.startRetentionCleaner(ctx)

	return s, nil
}

func prepareDirectories(dbPath string) error {
	return os.MkdirAll(filepath.Dir(dbPath), os.ModePerm)
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		name       TEXT    NOT NULL PRIMARY KEY,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		project_name        TEXT    NOT NULL REFERENCES projects(name) ON DELETE CASCADE,
		github              TEXT    NOT NULL,
		near                TEXT    NOT NULL,
		github_collected_at INTEGER NOT NULL,
		near_collected_at   INTEGER NOT NULL,
		recorded_at         INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_project ON snapshots(project_name);
	CREATE INDEX IF NOT EXISTS idx_snapshots_recorded_at ON snapshots(recorded_at);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// cleanRetainedSnapshots executes the retention cleanup query synchronously
func (s *sqliteStorage) cleanRetainedSnapshots(ctx context.Context) error {
	cutoff := time.Now().Unix() - int64(s.retentionSeconds)
	_, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE recorded_at < ?", cutoff)
	return err
}

// SaveSnapshot upserts the project, inserts the pair and prunes the entries beyond the history size
func (s *sqliteStorage) SaveSnapshot(ctx context.Context, project string, github validator.GitHubMetrics, near validator.NearMetrics, recordedAt int64) error {
	githubJSON, err := json.Marshal(github)
	if err != nil {
		return fmt.Errorf("failed to encode github snapshot: %w", err)
	}
	nearJSON, err := json.Marshal(near)
	if err != nil {
		return fmt.Errorf("failed to encode near snapshot: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (name, created_at)
		VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`, project, recordedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert project: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (project_name, github, near, github_collected_at, near_collected_at, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, project, string(githubJSON), string(nearJSON), github.CollectionTimestamp, near.CollectionTimestamp, recordedAt)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM snapshots
		WHERE project_name = ?
		  AND rowid NOT IN (
			  SELECT rowid FROM snapshots
			  WHERE project_name = ?
			  ORDER BY recorded_at DESC, rowid DESC
			  LIMIT ?
		  )
	`, project, project, s.historySize)
	if err != nil {
		return fmt.Errorf("failed to trim snapshot history: %w", err)
	}

	return tx.Commit()
}

// GetLatestSnapshot returns the most recently recorded pair of the project
func (s *sqliteStorage) GetLatestSnapshot(ctx context.Context, project string) (*common.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT github, near, recorded_at
		FROM snapshots
		WHERE project_name = ?
		ORDER BY recorded_at DESC, rowid DESC
		LIMIT 1
	`, project)

	var githubJSON, nearJSON string
	snapshot := &common.Snapshot{Project: project}
	err := row.Scan(&githubJSON, &nearJSON, &snapshot.RecordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}

	err = decodeSnapshot(snapshot, githubJSON, nearJSON)
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// GetSnapshotHistory returns the retained pairs of the project in ascending record order
func (s *sqliteStorage) GetSnapshotHistory(ctx context.Context, project string) ([]common.Snapshot, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects WHERE name = ?", project).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, common.ErrSnapshotNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT github, near, recorded_at
		FROM snapshots
		WHERE project_name = ?
		ORDER BY recorded_at, rowid
	`, project)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	history := make([]common.Snapshot, 0)
	for rows.Next() {
		var githubJSON, nearJSON string
		snapshot := common.Snapshot{Project: project}

		err = rows.Scan(&githubJSON, &nearJSON, &snapshot.RecordedAt)
		if err != nil {
			return nil, err
		}

		err = decodeSnapshot(&snapshot, githubJSON, nearJSON)
		if err != nil {
			return nil, err
		}

		history = append(history, snapshot)
	}

	return history, rows.Err()
}

// GetProjects returns every known project with its snapshot count
func (s *sqliteStorage) GetProjects(ctx context.Context) ([]common.ProjectSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.name, COUNT(s.recorded_at), COALESCE(MAX(s.recorded_at), 0)
		FROM projects p
		LEFT JOIN snapshots s ON s.project_name = p.name
		GROUP BY p.name
		ORDER BY p.name
	`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	results := make([]common.ProjectSummary, 0)
	for rows.Next() {
		var p common.ProjectSummary
		err = rows.Scan(&p.Name, &p.NumSnapshots, &p.LastRecordedAt)
		if err != nil {
			return nil, err
		}

		results = append(results, p)
	}

	return results, rows.Err()
}

// DeleteProject removes a project and all its snapshots
func (s *sqliteStorage) DeleteProject(ctx context.Context, project string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, "DELETE FROM snapshots WHERE project_name = ?", project)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM projects WHERE name = ?", project)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func decodeSnapshot(snapshot *common.Snapshot, githubJSON string, nearJSON string) error {
	err := json.Unmarshal([]byte(githubJSON), &snapshot.GitHub)
	if err != nil {
		return fmt.Errorf("failed to decode github snapshot: %w", err)
	}

	err = json.Unmarshal([]byte(nearJSON), &snapshot.Near)
	if err != nil {
		return fmt.Errorf("failed to decode near snapshot: %w", err)
	}

	return nil
}

func (s *sqliteStorage) startRetentionCleaner(ctx context.Context) {
	s.wg.Add(1)

	intervalSec := s.retentionSeconds / 10
	if intervalSec < minCleanupIntervalInSeconds {
		intervalSec = minCleanupIntervalInSeconds
	}

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)

	go func() {
		defer s.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				log.Debug("running retention cleanup")

				err := s.cleanRetainedSnapshots(ctx)
				if err != nil {
					log.Warn("failed to cleanup retained snapshots", "error", err)
				}
			}
		}
	}()
}

// Close closes the database and stops background routines
func (s *sqliteStorage) Close() error {
	s.cancelFunc()
	s.wg.Wait()
	return s.db.Close()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *sqliteStorage) IsInterfaceNil() bool {
	return s == nil
}
