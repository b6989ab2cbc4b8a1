package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"groupcast/internal/core/domain"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

//go:embed migrations.sql
var migrationsFS embed.FS

// SQLite remembers the groups and channels the bot has been added to. The Bot
// API has no dialog listing, so this is what /has and handle lookups read.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, _ = db.ExecContext(ctx, "PRAGMA journal_mode = WAL")
	_, _ = db.ExecContext(ctx, "PRAGMA synchronous = NORMAL")

	s := &SQLite{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Debug().Str("path", path).Msg("chat store opened")

	return s, nil
}

func (s *SQLite) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) UpsertChat(ctx context.Context, chat domain.Chat) error {
	if chat.UpdatedAt.IsZero() {
		chat.UpdatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chats(id, kind, title, username, updated_at) VALUES(?,?,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET
		   kind=excluded.kind, title=excluded.title, username=excluded.username, updated_at=excluded.updated_at`,
		chat.ID, string(chat.Kind), chat.Title, nullStr(strings.TrimPrefix(chat.Username, "@")),
		chat.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to store chat %d: %w", chat.ID, err)
	}

	return nil
}

func (s *SQLite) RemoveChat(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chats WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to remove chat %d: %w", id, err)
	}
	return nil
}

// ListChats returns every known chat ordered by title.
func (s *SQLite) ListChats(ctx context.Context) ([]domain.Chat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, title, username, updated_at FROM chats ORDER BY title COLLATE NOCASE, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	var chats []domain.Chat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}

	return chats, rows.Err()
}

func (s *SQLite) FindByUsername(ctx context.Context, username string) (domain.Chat, bool, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return domain.Chat{}, false, nil
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, title, username, updated_at FROM chats WHERE username = ? COLLATE NOCASE LIMIT 1`,
		username)

	c, err := scanChat(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Chat{}, false, nil
	}
	if err != nil {
		return domain.Chat{}, false, err
	}

	return c, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChat(r scanner) (domain.Chat, error) {
	var (
		c        domain.Chat
		kind     string
		username sql.NullString
		updated  int64
	)

	if err := r.Scan(&c.ID, &kind, &c.Title, &username, &updated); err != nil {
		return domain.Chat{}, err
	}

	c.Kind = domain.ChatKind(kind)
	c.Username = username.String
	c.UpdatedAt = time.UnixMilli(updated)

	return c, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
