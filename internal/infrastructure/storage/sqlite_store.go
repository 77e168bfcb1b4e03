package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/yourusername/telegram-gemini-bot/internal/domain/entity"
)

// SQLiteStore is the durable store behind the user registry and the
// interaction log. Single-process, single-writer.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the bot database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, errors.New("db path must not be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	if err := createSchema(db); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func createSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS users (
	chat_id INTEGER PRIMARY KEY,
	username TEXT,
	first_seen TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	chat_id INTEGER NOT NULL,
	username TEXT,
	text TEXT,
	response TEXT,
	ts TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_chat_ts ON messages (chat_id, ts);
`
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// RegisterIfAbsent records the user unless the chat is already known.
func (s *SQLiteStore) RegisterIfAbsent(ctx context.Context, user entity.User) error {
	firstSeen := user.FirstSeen
	if firstSeen.IsZero() {
		firstSeen = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (chat_id, username, first_seen) VALUES (?, ?, ?)`,
		user.ChatID, user.Username, firstSeen)
	if err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// GetAll returns every registered user, oldest first.
func (s *SQLiteStore) GetAll(ctx context.Context) ([]entity.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT chat_id, username, first_seen FROM users ORDER BY first_seen`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []entity.User
	for rows.Next() {
		var user entity.User
		if err := rows.Scan(&user.ChatID, &user.Username, &user.FirstSeen); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Count returns the number of registered users.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// SaveMessage appends one exchange to the interaction log.
func (s *SQLiteStore) SaveMessage(ctx context.Context, message entity.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO messages (id, chat_id, username, text, response, ts) VALUES (?, ?, ?, ?, ?, ?)`,
		message.ID, message.ChatID, message.Username, message.Text, message.Response, message.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// GetAllMessages returns the most recent exchanges, newest first.
func (s *SQLiteStore) GetAllMessages(ctx context.Context, limit int) ([]entity.Message, error) {
	query := `SELECT id, chat_id, username, text, response, ts FROM messages ORDER BY ts DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []entity.Message
	for rows.Next() {
		var msg entity.Message
		var ts time.Time
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.Username, &msg.Text, &msg.Response, &ts); err != nil {
			return nil, err
		}
		msg.Timestamp = ts
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// CountMessages returns the number of logged exchanges.
func (s *SQLiteStore) CountMessages(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count)
	return count, err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
