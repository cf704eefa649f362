package services

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

	"rent-advisor-api/pkg/models"

	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

var storeLog = log.WithField("component", "profile_store")

// ProfileStore persists user profiles keyed by username
type ProfileStore interface {
	GetProfile(ctx context.Context, username string) (models.UserProfile, error)
	SaveProfile(ctx context.Context, username string, p models.UserProfile) error
	Close() error
}

// profileFields flattens a profile into its stored key/value form
func profileFields(p models.UserProfile) (map[string]any, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// JSONFileProfileStore keeps every user in one JSON document:
//
//	{"alice": {"email": "...", "arrondissement": 11, ...}, ...}
//
// Keys the store does not know about (credentials, e-mail) are preserved on save.
type JSONFileProfileStore struct {
	path string
	mu   sync.RWMutex
}

// NewJSONFileProfileStore creates a store over path. The file is created on first save.
func NewJSONFileProfileStore(path string) *JSONFileProfileStore {
	return &JSONFileProfileStore{path: path}
}

func (s *JSONFileProfileStore) load() (map[string]map[string]any, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}
	if len(data) == 0 {
		return map[string]map[string]any{}, nil
	}
	var doc map[string]map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse profiles %s: %w", s.path, err)
	}
	if doc == nil {
		doc = map[string]map[string]any{}
	}
	return doc, nil
}

// GetProfile returns the parsed profile or ErrProfileNotFound
func (s *JSONFileProfileStore) GetProfile(_ context.Context, username string) (models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.load()
	if err != nil {
		return models.UserProfile{}, err
	}
	raw, ok := doc[username]
	if !ok {
		return models.UserProfile{}, fmt.Errorf("%w: %s", models.ErrProfileNotFound, username)
	}
	return models.ParseProfile(raw)
}

// SaveProfile merges the profile fields into the user's entry and rewrites the file
func (s *JSONFileProfileStore) SaveProfile(_ context.Context, username string, p models.UserProfile) error {
	if username == "" {
		return &models.ValidationError{Field: "username", Value: username, Reason: "must not be empty"}
	}
	fields, err := profileFields(p)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	entry := doc[username]
	if entry == nil {
		entry = map[string]any{}
	}
	for k, v := range fields {
		entry[k] = v
	}
	doc[username] = entry

	out, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create profile directory: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0644); err != nil {
		return fmt.Errorf("failed to write profiles: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace profiles: %w", err)
	}
	storeLog.WithField("username", username).Info("profile saved")
	return nil
}

// Close is a no-op for the file store
func (s *JSONFileProfileStore) Close() error { return nil }

// PostgresProfileStore keeps profiles as JSONB documents in PostgreSQL
type PostgresProfileStore struct {
	db *sql.DB
}

// NewPostgresProfileStore opens the connection and pings the database
func NewPostgresProfileStore(ctx context.Context, connStr string) (*PostgresProfileStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Minute * 5)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	storeLog.Info("Connected to PostgreSQL successfully")
	return &PostgresProfileStore{db: db}, nil
}

// CreateTable creates the profiles table if it doesn't exist
func (s *PostgresProfileStore) CreateTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS profiles (
		username   TEXT PRIMARY KEY,
		data       JSONB       NOT NULL DEFAULT '{}'::jsonb,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	storeLog.Info("Table 'profiles' is ready")
	return nil
}

// GetProfile returns the parsed profile or ErrProfileNotFound
func (s *PostgresProfileStore) GetProfile(ctx context.Context, username string) (models.UserProfile, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM profiles WHERE username = $1`, username).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserProfile{}, fmt.Errorf("%w: %s", models.ErrProfileNotFound, username)
	}
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to query profile: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to decode profile %s: %w", username, err)
	}
	return models.ParseProfile(raw)
}

// SaveProfile upserts the profile, merging into any existing document
func (s *PostgresProfileStore) SaveProfile(ctx context.Context, username string, p models.UserProfile) error {
	if username == "" {
		return &models.ValidationError{Field: "username", Value: username, Reason: "must not be empty"}
	}
	fields, err := profileFields(p)
	if err != nil {
		return err
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (username, data, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (username) DO UPDATE
		SET data = profiles.data || EXCLUDED.data, updated_at = NOW()
	`, username, string(data))
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *PostgresProfileStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
