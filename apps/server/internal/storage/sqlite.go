package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"mighty/mighty"
)

const defaultLocalDBName = "mighty_local.db"

// SQLiteStore is the local/sqlite-backed Store, grounded on
// apps/server/internal/auth/sqlite.go's connection-setup idiom (single
// connection, WAL, busy_timeout, foreign_keys) and on
// apps/server/internal/ledger/sqlite.go's schema-migration style.
type SQLiteStore struct {
	db *sql.DB
}

func storageLocalDatabasePathFromEnv() (string, error) {
	for _, candidate := range []string{
		strings.TrimSpace(os.Getenv("STORAGE_LOCAL_DATABASE_PATH")),
		strings.TrimSpace(os.Getenv("LOCAL_DATABASE_PATH")),
	} {
		if candidate != "" {
			return filepath.Clean(candidate), nil
		}
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "Mighty", defaultLocalDBName), nil
}

func NewSQLiteStoreFromEnv() (*SQLiteStore, error) {
	path, err := storageLocalDatabasePathFromEnv()
	if err != nil {
		return nil, err
	}
	return NewSQLiteStore(path)
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("storage: empty sqlite database path")
	}
	if dbPath != ":memory:" {
		if parent := filepath.Dir(dbPath); parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			no INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			password TEXT NOT NULL DEFAULT '',
			rating INTEGER NOT NULL DEFAULT 1000,
			is_admin INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS rooms (
			id INTEGER PRIMARY KEY,
			rule_json TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS game (
			id TEXT PRIMARY KEY,
			room_id INTEGER NOT NULL,
			room_name TEXT NOT NULL,
			users_json TEXT NOT NULL,
			is_rank INTEGER NOT NULL,
			rule_json TEXT NOT NULL,
			created_at_ms INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS record (
			game_id TEXT NOT NULL,
			room_id INTEGER NOT NULL,
			number INTEGER NOT NULL,
			state_json TEXT NOT NULL,
			PRIMARY KEY (game_id, number)
		)`,
		`CREATE TABLE IF NOT EXISTS rating (
			user_no INTEGER NOT NULL,
			game_id TEXT NOT NULL,
			diff INTEGER NOT NULL,
			rating INTEGER NOT NULL,
			time_ms INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rating_user ON rating(user_no, time_ms DESC)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) GetUserInfo(ctx context.Context, userNo int) (UserInfo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT no, id, name, email, rating, is_admin FROM users WHERE no = ?`, userNo)
	var u UserInfo
	var idStr string
	var isAdmin int
	if err := row.Scan(&u.No, &idStr, &u.Name, &u.Email, &u.Rating, &isAdmin); err != nil {
		if err == sql.ErrNoRows {
			return UserInfo{}, ErrUserNotFound
		}
		return UserInfo{}, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return UserInfo{}, err
	}
	u.ID = id
	u.IsAdmin = isAdmin != 0
	return u, nil
}

func (s *SQLiteStore) SaveRule(ctx context.Context, roomID int, rule mighty.Rule) error {
	data, err := json.Marshal(rule)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rooms (id, rule_json) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET rule_json = excluded.rule_json`, roomID, string(data))
	return err
}

func (s *SQLiteStore) MakeGameRecord(ctx context.Context, gameID uuid.UUID, roomID int, roomName string, users []int, isRank bool, rule mighty.Rule) error {
	usersData, err := json.Marshal(users)
	if err != nil {
		return err
	}
	ruleData, err := json.Marshal(rule)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO game (id, room_id, room_name, users_json, is_rank, rule_json, created_at_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		gameID.String(), roomID, roomName, string(usersData), boolToInt(isRank), string(ruleData), time.Now().UnixMilli())
	return err
}

func (s *SQLiteStore) SaveState(ctx context.Context, gameID uuid.UUID, roomID int, seq uint64, state mighty.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO record (game_id, room_id, number, state_json) VALUES (?, ?, ?, ?)
		ON CONFLICT(game_id, number) DO UPDATE SET state_json = excluded.state_json`,
		gameID.String(), roomID, seq, string(data))
	return err
}

func (s *SQLiteStore) ChangeRating(ctx context.Context, userNo int, gameID uuid.UUID, diff int, rating int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO rating (user_no, game_id, diff, rating, time_ms) VALUES (?, ?, ?, ?, ?)`,
		userNo, gameID.String(), diff, rating, time.Now().UnixMilli()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE users SET rating = ? WHERE no = ?`, rating, userNo); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetRating(ctx context.Context, userNo int, window time.Duration) ([]RatingEntry, error) {
	cutoffMs := int64(0)
	if window > 0 {
		cutoffMs = time.Now().Add(-window).UnixMilli()
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id, diff, rating, time_ms FROM rating
		WHERE user_no = ? AND time_ms >= ? ORDER BY time_ms DESC`, userNo, cutoffMs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RatingEntry
	for rows.Next() {
		var gameIDStr string
		var e RatingEntry
		var timeMs int64
		if err := rows.Scan(&gameIDStr, &e.Diff, &e.Rating, &timeMs); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(gameIDStr)
		if err != nil {
			return nil, err
		}
		e.GameID = id
		e.Time = time.UnixMilli(timeMs)
		out = append(out, e)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
