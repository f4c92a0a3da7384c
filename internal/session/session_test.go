package session_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/edgard/chatlens/internal/chatexport"
	"github.com/edgard/chatlens/internal/session"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestStore_PutGetSelect(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	if _, err := store.Get(1); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("Get() on empty store error = %v, want ErrNoSession", err)
	}

	table := chatexport.NewTable(nil)
	users := []string{"Overall", "Alice"}
	put := store.Put(1, "chat.txt", table, users, "Overall")
	users[1] = "mutated"

	got, err := store.Get(1)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != put.ID || got.SourceName != "chat.txt" || got.SelectedUser != "Overall" || got.Users[1] != "Alice" {
		t.Errorf("Get() = %+v", got)
	}

	sel, err := store.SelectUser(1, "Alice")
	if err != nil || sel.SelectedUser != "Alice" {
		t.Errorf("SelectUser() = %+v, %v", sel, err)
	}
	if _, err := store.SelectUser(2, "Alice"); !errors.Is(err, session.ErrNoSession) {
		t.Errorf("SelectUser() unknown chat error = %v", err)
	}

	replaced := store.Put(1, "other.txt", table, users, "Overall")
	if replaced.ID == put.ID || store.Len() != 1 {
		t.Errorf("Put() should replace the chat's session, Len() = %d", store.Len())
	}

	if !store.Delete(1) || store.Delete(1) {
		t.Error("Delete() should report whether a session existed")
	}
}

func TestStore_EvictIdle(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := session.NewStoreWithClock(clock.Now)

	store.Put(1, "a.txt", nil, nil, "Overall")
	store.Put(2, "b.txt", nil, nil, "Overall")

	clock.Advance(50 * time.Minute)
	if _, err := store.Get(2); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	clock.Advance(20 * time.Minute)

	if n := store.EvictIdle(time.Hour); n != 1 {
		t.Errorf("EvictIdle() = %d, want 1", n)
	}
	if _, err := store.Get(1); !errors.Is(err, session.ErrNoSession) {
		t.Error("idle session 1 should be evicted")
	}
	if _, err := store.Get(2); err != nil {
		t.Error("recently used session 2 should survive")
	}
}

func TestStore_Concurrent(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			store.Put(chatID%5, "x.txt", nil, nil, "Overall")
			_, _ = store.Get(chatID % 5)
			_, _ = store.SelectUser(chatID%5, "Alice")
			store.EvictIdle(time.Hour)
		}(int64(i))
	}
	wg.Wait()
	if store.Len() > 5 {
		t.Errorf("Len() = %d, want at most 5", store.Len())
	}
}
