package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) AccessSessionKey(accessID string) string {
	return "cc:session:access:" + accessID
}

func newTestManager() (*Manager, *fakeStore) {
	store := newFakeStore()
	return &Manager{store: store, keyer: fakeKeyer{}, ttl: time.Hour}, store
}

func TestSessionLifecycle(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()
	accessID := NewAccessID()

	ok, err := mgr.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if ok {
		t.Fatal("unopened session should not exist")
	}

	if err := mgr.Open(ctx, accessID, uuid.New()); err != nil {
		t.Fatalf("open: %v", err)
	}

	ok, err = mgr.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if !ok {
		t.Fatal("opened session should exist")
	}

	if err := mgr.Revoke(ctx, accessID); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	ok, err = mgr.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if ok {
		t.Fatal("revoked session should be gone")
	}
}

func TestEmptyAccessID(t *testing.T) {
	mgr, _ := newTestManager()
	if err := mgr.Open(context.Background(), " ", uuid.New()); err == nil {
		t.Fatal("blank access id should be rejected")
	}
	if _, err := mgr.HasSession(context.Background(), ""); err == nil {
		t.Fatal("blank access id should be rejected")
	}
}
