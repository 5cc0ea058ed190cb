package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"tasktracker/internal/repository"
	"tasktracker/internal/repository/sqlite"
)

type fixture struct {
	users    repository.UserRepository
	tasks    repository.TaskRepository
	sessions repository.SessionRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "service.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	f := fixture{
		users:    sqlite.NewUserRepository(db),
		tasks:    sqlite.NewTaskRepository(db),
		sessions: sqlite.NewSessionRepository(db),
	}
	ctx := context.Background()
	if err := f.users.Init(ctx); err != nil {
		t.Fatalf("init users: %v", err)
	}
	if err := f.tasks.Init(ctx); err != nil {
		t.Fatalf("init tasks: %v", err)
	}
	if err := f.sessions.Init(ctx); err != nil {
		t.Fatalf("init sessions: %v", err)
	}
	return f
}

// testClock is a settable clock for session expiry tests.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Now().UTC()}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
