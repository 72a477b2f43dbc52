package silence

import (
	"context"
	"sync"
	"testing"
	"time"

	"alertflow/alerting/entity"
	"alertflow/alerting/store"

	"github.com/benbjohnson/clock"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeKV struct {
	mu  sync.Mutex
	clk clock.Clock
	exp map[string]time.Time
}

func newFakeKV(clk clock.Clock) *fakeKV {
	return &fakeKV{clk: clk, exp: make(map[string]time.Time)}
}

func (f *fakeKV) SetWithExpire(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exp[key] = f.clk.Now().Add(expiration)
	return nil
}

func (f *fakeKV) Del(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.exp, key)
	return nil
}

func (f *fakeKV) Exists(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	deadline, ok := f.exp[key]
	return ok && f.clk.Now().Before(deadline), nil
}

func newTestManager(t *testing.T) (*Manager, *clock.Mock) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&entity.Silence{}); err != nil {
		t.Fatal(err)
	}

	clk := clock.NewMock()
	clk.Set(time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC))
	return NewManager(newFakeKV(clk), store.NewSilenceRepository(db), clk), clk
}

func TestCreateAndIsSilenced(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx, "HighErrorRate:api", 30*time.Minute, "deploy window", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if s.SilenceID == "" {
		t.Error("silence id not assigned")
	}
	if s.CreatedBy != "alice" || s.Comment != "deploy window" {
		t.Errorf("silence = %+v", s)
	}
	if !s.EndsAt.Equal(s.StartsAt.Add(30 * time.Minute)) {
		t.Errorf("ends_at = %s", s.EndsAt)
	}

	if !m.IsSilenced(ctx, "HighErrorRate:api") {
		t.Error("alert not silenced after create")
	}
	if m.IsSilenced(ctx, "Other:api") {
		t.Error("unrelated alert reported silenced")
	}
}

func TestSilenceExpires(t *testing.T) {
	m, clk := newTestManager(t)
	ctx := context.Background()

	if _, err := m.Create(ctx, "a:1", 10*time.Minute, "", "bob"); err != nil {
		t.Fatal(err)
	}
	clk.Add(11 * time.Minute)

	if m.IsSilenced(ctx, "a:1") {
		t.Error("silence did not expire")
	}

	rows, err := m.List(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("active silences = %d, want 0", len(rows))
	}

	rows, err = m.List(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("audit rows = %d, want 1 (expired silences stay listed)", len(rows))
	}
}

func TestDeleteSilence(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx, "a:1", time.Hour, "", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Delete(ctx, s.SilenceID); err != nil {
		t.Fatal(err)
	}

	if m.IsSilenced(ctx, "a:1") {
		t.Error("alert still silenced after delete")
	}
	if err := m.Delete(ctx, s.SilenceID); err == nil {
		t.Error("second delete must fail")
	}
	if err := m.Delete(ctx, "unknown-id"); err == nil {
		t.Error("deleting an unknown silence must fail")
	}
}
