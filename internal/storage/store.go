// Package storage is the persistence collaborator behind the realtime
// core: call records, chat messages and operator settings in a single
// SQLite file. The relay never reads from it; clients fetch history over
// REST on login.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chitchat/realtime/internal/domain"
)

type Store struct {
	db *sql.DB
}

// Open opens or creates the database file, applying pragmas and schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(`
		PRAGMA foreign_keys = ON;
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS calls (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			caller      TEXT NOT NULL,
			receiver    TEXT NOT NULL,
			duration_s  INTEGER NOT NULL DEFAULT 0,
			status      TEXT NOT NULL,
			kind        TEXT NOT NULL DEFAULT 'video',
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS messages (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id TEXT NOT NULL,
			sender          TEXT NOT NULL,
			receiver        TEXT,
			text            TEXT,
			kind            TEXT NOT NULL DEFAULT 'text',
			media_url       TEXT,
			created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_messages_conversation
			ON messages(conversation_id, id);

		CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT
		);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) CreateCallRecord(ctx context.Context, rec domain.CallRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calls (caller, receiver, duration_s, status, kind) VALUES (?, ?, ?, ?, ?)`,
		string(rec.Caller), string(rec.Receiver), int(rec.Duration/time.Second), string(rec.Status), string(rec.Kind))
	if err != nil {
		return fmt.Errorf("insert call record: %w", err)
	}
	return nil
}

func (s *Store) CreateMessage(ctx context.Context, msg domain.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, sender, receiver, text, kind, media_url) VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ConversationID, string(msg.Sender), string(msg.Receiver), msg.Text, string(msg.Kind), msg.MediaURL)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *Store) SetMaintenance(ctx context.Context, active bool) error {
	val := "0"
	if active {
		val = "1"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES ('maintenance', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, val)
	if err != nil {
		return fmt.Errorf("set maintenance flag: %w", err)
	}
	return nil
}

func (s *Store) Maintenance(ctx context.Context) (bool, error) {
	var val string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'maintenance'`).Scan(&val)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read maintenance flag: %w", err)
	}
	return val == "1", nil
}

// CallsFor returns the call history an identity took part in, newest
// first.
func (s *Store) CallsFor(ctx context.Context, id domain.Identity) ([]domain.CallRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT caller, receiver, duration_s, status, kind FROM calls
		 WHERE caller = ? OR receiver = ? ORDER BY id DESC`,
		string(id), string(id))
	if err != nil {
		return nil, fmt.Errorf("query calls: %w", err)
	}
	defer rows.Close()

	var out []domain.CallRecord
	for rows.Next() {
		var rec domain.CallRecord
		var durationS int
		if err := rows.Scan(&rec.Caller, &rec.Receiver, &durationS, &rec.Status, &rec.Kind); err != nil {
			return nil, fmt.Errorf("scan call: %w", err)
		}
		rec.Duration = time.Duration(durationS) * time.Second
		out = append(out, rec)
	}
	return out, rows.Err()
}

// MessagesIn returns a conversation's messages in insertion order.
func (s *Store) MessagesIn(ctx context.Context, conversationID string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT conversation_id, sender, COALESCE(receiver, ''), COALESCE(text, ''), kind, COALESCE(media_url, '')
		 FROM messages WHERE conversation_id = ? ORDER BY id`,
		conversationID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ConversationID, &msg.Sender, &msg.Receiver, &msg.Text, &msg.Kind, &msg.MediaURL); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}
