package savedstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/netgazer/wifiwatch/internal/entry"
	"github.com/netgazer/wifiwatch/internal/event"
	"github.com/netgazer/wifiwatch/internal/store"
)

// ErrNotFound is returned when a config ID does not exist.
var ErrNotFound = errors.New("saved config not found")

// ErrDuplicate is returned when a config with the same SSID and security
// type already exists.
var ErrDuplicate = errors.New("saved config already exists")

// Record is a persisted saved network configuration.
type Record struct {
	ID        string             `json:"id"`
	SSID      string             `json:"ssid"`
	Security  entry.SecurityType `json:"security"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Store persists saved network configurations and announces every change as
// a wholesale snapshot on the event bus, so trackers always replace rather
// than merge.
type Store struct {
	db     *sql.DB
	bus    *event.Bus
	logger *zap.Logger
}

// New creates the store and applies its schema migrations.
func New(ctx context.Context, s *store.SQLiteStore, bus *event.Bus, logger *zap.Logger) (*Store, error) {
	if err := s.Migrate(ctx, "savedstore", migrations()); err != nil {
		return nil, fmt.Errorf("migrate savedstore: %w", err)
	}
	return &Store{db: s.DB(), bus: bus, logger: logger}, nil
}

// List returns all saved configurations in creation order.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ssid, security, created_at, updated_at
		FROM saved_configs ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list saved configs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var security string
		if err := rows.Scan(&r.ID, &r.SSID, &security, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan saved config row: %w", err)
		}
		sec, err := entry.ParseSecurity(security)
		if err != nil {
			return nil, fmt.Errorf("saved config %s: %w", r.ID, err)
		}
		r.Security = sec
		records = append(records, r)
	}
	return records, rows.Err()
}

// Get returns a single saved configuration by ID.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	var r Record
	var security string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, ssid, security, created_at, updated_at
		FROM saved_configs WHERE id = ?`, id,
	).Scan(&r.ID, &r.SSID, &security, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get saved config: %w", err)
	}
	sec, err := entry.ParseSecurity(security)
	if err != nil {
		return Record{}, fmt.Errorf("saved config %s: %w", id, err)
	}
	r.Security = sec
	return r, nil
}

// SavedConfigs returns the current configurations in tracker form. It
// implements the initial full read contract used when a tracker starts.
func (s *Store) SavedConfigs(ctx context.Context) ([]entry.SavedConfig, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	configs := make([]entry.SavedConfig, 0, len(records))
	for _, r := range records {
		configs = append(configs, entry.SavedConfig{SSID: r.SSID, Security: r.Security})
	}
	return configs, nil
}

// Save inserts a new configuration and publishes the updated snapshot.
func (s *Store) Save(ctx context.Context, ssid string, security entry.SecurityType) (Record, error) {
	if ssid == "" {
		return Record{}, fmt.Errorf("save config: %w", entry.ErrEmptySSID)
	}
	if !security.Valid() {
		return Record{}, fmt.Errorf("save config: %w: %d", entry.ErrUnknownSecurity, int(security))
	}

	now := time.Now().UTC()
	rec := Record{
		ID:        uuid.NewString(),
		SSID:      ssid,
		Security:  security,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saved_configs (id, ssid, security, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.SSID, rec.Security.String(), rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Record{}, fmt.Errorf("%w: %s/%s", ErrDuplicate, ssid, security)
		}
		return Record{}, fmt.Errorf("insert saved config: %w", err)
	}

	s.logger.Info("saved config added",
		zap.String("id", rec.ID),
		zap.String("ssid", rec.SSID),
		zap.Stringer("security", rec.Security),
	)
	s.publishSnapshot(ctx)
	return rec, nil
}

// Delete removes a configuration by ID and publishes the updated snapshot.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM saved_configs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete saved config: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}

	s.logger.Info("saved config removed", zap.String("id", id))
	s.publishSnapshot(ctx)
	return nil
}

// publishSnapshot reads the full config set and announces it. Trackers
// replace their indexed set wholesale on every announcement.
func (s *Store) publishSnapshot(ctx context.Context) {
	if s.bus == nil {
		return
	}
	configs, err := s.SavedConfigs(ctx)
	if err != nil {
		s.logger.Error("read configs for snapshot", zap.Error(err))
		return
	}
	s.bus.Publish(ctx, event.Event{
		Topic:     entry.TopicSavedConfigs,
		Source:    "savedstore",
		Timestamp: time.Now().UTC(),
		Payload:   &entry.SavedConfigsEvent{Configs: configs},
	})
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
