package savedstore

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/netgazer/wifiwatch/internal/entry"
	"github.com/netgazer/wifiwatch/internal/event"
	"github.com/netgazer/wifiwatch/internal/store"
)

func testStore(t *testing.T) (*Store, *event.Bus) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	base, err := store.New(path)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { base.Close() })

	bus := event.NewBus(zap.NewNop())
	s, err := New(context.Background(), base, bus, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, bus
}

func TestSave_and_List(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	rec, err := s.Save(ctx, "home-net", entry.SecuritySAE)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.ID == "" {
		t.Error("Save returned empty ID")
	}

	records, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].SSID != "home-net" || records[0].Security != entry.SecuritySAE {
		t.Errorf("got %s/%s, want home-net/sae", records[0].SSID, records[0].Security)
	}
}

func TestSave_duplicate_rejected(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	if _, err := s.Save(ctx, "home-net", entry.SecurityPSK); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	_, err := s.Save(ctx, "home-net", entry.SecurityPSK)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("second Save error = %v, want ErrDuplicate", err)
	}

	// Same SSID under a different security type is a distinct config.
	if _, err := s.Save(ctx, "home-net", entry.SecuritySAE); err != nil {
		t.Errorf("Save with different security: %v", err)
	}
}

func TestSave_empty_ssid_rejected(t *testing.T) {
	s, _ := testStore(t)

	_, err := s.Save(context.Background(), "", entry.SecurityPSK)
	if !errors.Is(err, entry.ErrEmptySSID) {
		t.Errorf("Save error = %v, want ErrEmptySSID", err)
	}
}

func TestSave_unknown_security_rejected(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, "home-net", entry.SecurityType(42))
	if !errors.Is(err, entry.ErrUnknownSecurity) {
		t.Errorf("Save error = %v, want ErrUnknownSecurity", err)
	}

	// An out-of-range value must never reach the database, where its string
	// form would poison every subsequent List.
	records, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List after rejected save: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("List returned %d records, want 0", len(records))
	}
}

func TestGet(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	rec, err := s.Save(ctx, "home-net", entry.SecurityPSK)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.SSID != "home-net" {
		t.Errorf("got ssid %q, want %q", got.SSID, "home-net")
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	rec, err := s.Save(ctx, "home-net", entry.SecurityPSK)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	records, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records after delete, want 0", len(records))
	}

	if err := s.Delete(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
}

func TestSavedConfigs_tracker_form(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	if _, err := s.Save(ctx, "home-net", entry.SecuritySAE); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.Save(ctx, "guest-net", entry.SecurityNone); err != nil {
		t.Fatalf("Save: %v", err)
	}

	configs, err := s.SavedConfigs(ctx)
	if err != nil {
		t.Fatalf("SavedConfigs: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("got %d configs, want 2", len(configs))
	}
	if configs[0].SSID != "home-net" || configs[0].Security != entry.SecuritySAE {
		t.Errorf("first config = %+v", configs[0])
	}
}

func TestChanges_publish_wholesale_snapshots(t *testing.T) {
	s, bus := testStore(t)
	ctx := context.Background()

	var mu sync.Mutex
	var snapshots [][]entry.SavedConfig
	bus.Subscribe(entry.TopicSavedConfigs, func(_ context.Context, e event.Event) {
		payload, ok := e.Payload.(*entry.SavedConfigsEvent)
		if !ok {
			t.Errorf("unexpected payload type %T", e.Payload)
			return
		}
		mu.Lock()
		snapshots = append(snapshots, payload.Configs)
		mu.Unlock()
	})

	rec1, err := s.Save(ctx, "home-net", entry.SecurityPSK)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.Save(ctx, "guest-net", entry.SecurityNone); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, rec1.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(snapshots) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(snapshots))
	}
	// Each snapshot is the full set, not a delta.
	if len(snapshots[0]) != 1 || len(snapshots[1]) != 2 || len(snapshots[2]) != 1 {
		t.Errorf("snapshot sizes = %d/%d/%d, want 1/2/1",
			len(snapshots[0]), len(snapshots[1]), len(snapshots[2]))
	}
	if snapshots[2][0].SSID != "guest-net" {
		t.Errorf("remaining config = %q, want guest-net", snapshots[2][0].SSID)
	}
}
