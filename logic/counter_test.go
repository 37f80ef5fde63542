package logic

import (
	"errors"
	"testing"
	"time"
)

func testCounter(cached int64, recompute func() (int64, error), persist func(int64) error) Counter {
	return Counter{
		Name:      "test:count",
		Key:       "test:count:1",
		TTL:       time.Minute,
		Cached:    cached,
		Recompute: recompute,
		Persist:   persist,
	}
}

func TestCounterFieldFastPath(t *testing.T) {
	c := testCounter(5, func() (int64, error) {
		t.Fatal("持久化字段 > 0 时不应重算")
		return 0, nil
	}, nil)

	got, err := c.Value(newFakeStore())
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if got != 5 {
		t.Errorf("Value() = %d, want 5", got)
	}
}

func TestCounterRedisHit(t *testing.T) {
	store := newFakeStore()
	store.data["test:count:1"] = "42"

	c := testCounter(0, func() (int64, error) {
		t.Fatal("缓存命中时不应重算")
		return 0, nil
	}, nil)

	got, err := c.Value(store)
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if got != 42 {
		t.Errorf("Value() = %d, want 42", got)
	}
}

func TestCounterRecomputeWritesBack(t *testing.T) {
	store := newFakeStore()
	persisted := int64(-1)

	c := testCounter(0,
		func() (int64, error) { return 7, nil },
		func(n int64) error { persisted = n; return nil })

	got, err := c.Value(store)
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if got != 7 {
		t.Errorf("Value() = %d, want 7", got)
	}
	if store.data["test:count:1"] != "7" {
		t.Errorf("应回写缓存, got %q", store.data["test:count:1"])
	}
	if persisted != 7 {
		t.Errorf("应回写持久化字段, got %d", persisted)
	}
}

func TestCounterSkipPersistWhenEqual(t *testing.T) {
	// Cached == 重算结果时不回写持久化字段
	c := Counter{
		Name: "test:count", Key: "test:count:2", TTL: time.Minute,
		Recompute: func() (int64, error) { return 0, nil },
		Persist: func(n int64) error {
			t.Fatal("值未变时不应回写")
			return nil
		},
	}
	got, err := c.Value(newFakeStore())
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if got != 0 {
		t.Errorf("Value() = %d, want 0", got)
	}
}

func TestCounterStoreUnavailableDegrades(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("redis down")
	store.setErr = errors.New("redis down")

	c := testCounter(0,
		func() (int64, error) { return 3, nil },
		func(int64) error { return nil })

	got, err := c.Value(store)
	if err != nil {
		t.Fatalf("缓存不可用不应让读失败: %v", err)
	}
	if got != 3 {
		t.Errorf("Value() = %d, want 3", got)
	}
}

func TestCounterNilStore(t *testing.T) {
	c := testCounter(0, func() (int64, error) { return 9, nil }, nil)
	got, err := c.Value(nil)
	if err != nil {
		t.Fatalf("Value(nil) error = %v", err)
	}
	if got != 9 {
		t.Errorf("Value(nil) = %d, want 9", got)
	}
}

func TestCounterRecomputeError(t *testing.T) {
	wantErr := errors.New("db down")
	c := testCounter(0, func() (int64, error) { return 0, wantErr }, nil)

	if _, err := c.Value(newFakeStore()); !errors.Is(err, wantErr) {
		t.Errorf("Value() error = %v, want %v", err, wantErr)
	}
}

func TestRefreshClampsNegative(t *testing.T) {
	store := newFakeStore()
	persisted := int64(-1)

	c := testCounter(0,
		func() (int64, error) { return -3, nil },
		func(n int64) error { persisted = n; return nil })

	got, err := c.Refresh(store)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got != 0 || persisted != 0 {
		t.Errorf("计数不允许为负: got %d, persisted %d", got, persisted)
	}
	if store.data["test:count:1"] != "0" {
		t.Errorf("缓存也应写入钳制后的值, got %q", store.data["test:count:1"])
	}
}

func TestRefreshUpdatesCache(t *testing.T) {
	store := newFakeStore()
	store.data["test:count:1"] = "1"

	c := testCounter(0,
		func() (int64, error) { return 5, nil },
		func(int64) error { return nil })

	got, err := c.Refresh(store)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got != 5 || store.data["test:count:1"] != "5" {
		t.Errorf("Refresh 后缓存应为最新值, got %d / %q", got, store.data["test:count:1"])
	}
}
