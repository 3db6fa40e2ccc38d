//nolint:testpackage // Tests require internal access for thorough testing
package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	laneserrors "github.com/abatilo/lanes/internal/errors"
	"github.com/abatilo/lanes/internal/seed"
	"github.com/abatilo/lanes/internal/storage"
	"github.com/abatilo/lanes/internal/task"
)

var errUnavailable = errors.New("storage unavailable")

// failingKV fails every operation.
type failingKV struct{}

func (failingKV) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errUnavailable }
func (failingKV) Set(context.Context, string, []byte) error         { return errUnavailable }
func (failingKV) Delete(context.Context, string) error              { return errUnavailable }
func (failingKV) Close() error                                      { return nil }

var t0 = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC).UnixMilli()

func defaultTasks() []task.Task {
	return []task.Task{
		{ID: 100, Text: "seeded", StartDay: t0, EndDay: t0, Type: task.StageTodo},
	}
}

func newTestStore(t *testing.T, kv storage.KV, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	s := NewStore(kv, seed.Static(defaultTasks()), opts...)
	s.Load(context.Background())
	return s
}

func persisted(t *testing.T, kv storage.KV) ([]task.Task, bool) {
	t.Helper()
	data, ok, err := kv.Get(context.Background(), storage.TasksKey)
	if err != nil {
		t.Fatalf("kv.Get failed: %v", err)
	}
	if !ok {
		return nil, false
	}
	tasks, err := storage.DecodeTasks(data)
	if err != nil {
		t.Fatalf("persisted data is malformed: %v", err)
	}
	return tasks, true
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		stored  *string
		wantIDs []int64
	}{
		{"absent falls back to defaults", nil, []int64{100}},
		{"zero-length value falls back to defaults", ptr(""), []int64{100}},
		{"malformed falls back to defaults", ptr(`[{"id":`), []int64{100}},
		{"persisted list wins", ptr(`[{"id":7,"text":"x","startDay":1,"endDay":2,"type":"done"}]`), []int64{7}},
		{"persisted empty list stays empty", ptr(`[]`), []int64{}},
		{"duplicate ids fall back to defaults", ptr(`[{"id":1,"text":"a","startDay":1,"endDay":1,"type":"todo"},{"id":1,"text":"b","startDay":1,"endDay":1,"type":"done"}]`), []int64{100}},
		{"non-integer timestamp falls back to defaults", ptr(`[{"id":1,"text":"a","startDay":"Inf","endDay":1,"type":"todo"}]`), []int64{100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemoryKV()
			if tt.stored != nil {
				if err := kv.Set(ctx, storage.TasksKey, []byte(*tt.stored)); err != nil {
					t.Fatal(err)
				}
			}
			s := NewStore(kv, seed.Static(defaultTasks()), WithLogger(zaptest.NewLogger(t)))
			got := s.Load(ctx)

			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Load() returned %d tasks, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("task[%d].ID = %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestLoadSeedFailureStartsEmpty(t *testing.T) {
	broken := seed.LoaderFunc(func() ([]task.Task, error) { return nil, errors.New("no seed") })
	s := NewStore(storage.NewMemoryKV(), broken, WithLogger(zaptest.NewLogger(t)))

	if got := s.Load(context.Background()); len(got) != 0 {
		t.Errorf("Load() = %v, want empty", got)
	}
}

func TestLoadDegradesWhenStorageUnavailable(t *testing.T) {
	s := newTestStore(t, failingKV{})

	if !s.Degraded() {
		t.Error("store should be degraded after a failed read")
	}
	if len(s.List()) != 1 {
		t.Fatalf("List() = %d tasks, want the defaults", len(s.List()))
	}

	// Mutations keep working in memory
	ctx := context.Background()
	if _, err := s.Add(ctx, task.Task{ID: 1, Text: "a", StartDay: t0, Type: task.StageTodo}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if len(s.List()) != 2 {
		t.Errorf("List() = %d tasks, want 2", len(s.List()))
	}
}

// writeFailingKV reads fine but refuses writes.
type writeFailingKV struct {
	*storage.MemoryKV
}

func (writeFailingKV) Set(context.Context, string, []byte) error { return errUnavailable }

func TestSaveDegradesWhenWritesFail(t *testing.T) {
	s := newTestStore(t, writeFailingKV{storage.NewMemoryKV()})
	if s.Degraded() {
		t.Fatal("store should not be degraded before any write")
	}

	if _, err := s.SetStage(context.Background(), 100, task.StageDone); err != nil {
		t.Fatalf("SetStage failed: %v", err)
	}
	if !s.Degraded() {
		t.Error("store should be degraded after a failed write")
	}
	got, _ := s.Get(100)
	if got.Type != task.StageDone {
		t.Errorf("Type = %q, want done", got.Type)
	}
}

func TestAddThenGetRoundTrip(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := newTestStore(t, kv)
	ctx := context.Background()

	want := task.Task{ID: 42, Text: "round trip", StartDay: t0, EndDay: t0 - 1000, Type: task.StageReview}
	tasks, err := s.Add(ctx, want)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("Add returned %d tasks, want 2", len(tasks))
	}

	got, ok := s.Get(42)
	if !ok {
		t.Fatal("added task not found")
	}
	if got != want {
		t.Errorf("Get(42) = %+v, want %+v", got, want)
	}

	stored, ok := persisted(t, kv)
	if !ok || len(stored) != 2 {
		t.Errorf("persisted = %v (present %v), want 2 tasks", stored, ok)
	}
}

func TestAddRejects(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryKV())
	ctx := context.Background()

	_, err := s.Add(ctx, task.Task{ID: 100, Text: "dup", Type: task.StageTodo})
	var exists laneserrors.AlreadyExistsError
	if !errors.As(err, &exists) {
		t.Errorf("duplicate Add error = %v, want AlreadyExistsError", err)
	}

	_, err = s.Add(ctx, task.Task{ID: 101, Text: "bad", Type: task.Stage("archived")})
	var invalid laneserrors.InvalidStageError
	if !errors.As(err, &invalid) {
		t.Errorf("invalid stage Add error = %v, want InvalidStageError", err)
	}

	if len(s.List()) != 1 {
		t.Errorf("rejected adds changed the list: %v", s.List())
	}
}

func TestUpdate(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryKV())
	ctx := context.Background()

	replacement := task.Task{ID: 100, Text: "edited", StartDay: t0 + 1, EndDay: t0 + 2, Type: task.StageTodo}
	tasks, err := s.Update(ctx, replacement)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("len = %d, want 1", len(tasks))
	}
	if got, _ := s.Get(100); got != replacement {
		t.Errorf("Get(100) = %+v, want %+v", got, replacement)
	}

	// Unknown id is a no-op
	before := s.List()
	tasks, err = s.Update(ctx, task.Task{ID: 999, Text: "ghost", Type: task.StageTodo})
	if err != nil {
		t.Fatalf("Update of unknown id returned error: %v", err)
	}
	if len(tasks) != len(before) || tasks[0] != before[0] {
		t.Errorf("Update of unknown id changed the list: %v", tasks)
	}
}

func TestRemove(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := newTestStore(t, kv)
	ctx := context.Background()

	if _, err := s.Add(ctx, task.Task{ID: 1, Text: "a", StartDay: t0, Type: task.StageTodo}); err != nil {
		t.Fatal(err)
	}

	tasks := s.Remove(ctx, 999)
	if len(tasks) != 2 {
		t.Errorf("Remove of absent id: len = %d, want 2", len(tasks))
	}

	tasks = s.Remove(ctx, 1)
	if len(tasks) != 1 {
		t.Errorf("Remove: len = %d, want 1", len(tasks))
	}
	if s.Exists(1) {
		t.Error("task 1 should be gone")
	}
}

func TestSetStage(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := NewStore(kv, seed.Static([]task.Task{
		{ID: 1, Type: task.StageTodo, StartDay: t0, EndDay: t0, Text: "A"},
	}), WithLogger(zaptest.NewLogger(t)))
	s.Load(context.Background())

	tasks, err := s.SetStage(context.Background(), 1, task.StageDone)
	if err != nil {
		t.Fatalf("SetStage failed: %v", err)
	}

	want := task.Task{ID: 1, Type: task.StageDone, StartDay: t0, EndDay: t0, Text: "A"}
	if len(tasks) != 1 || tasks[0] != want {
		t.Errorf("SetStage result = %v, want [%+v]", tasks, want)
	}

	_, err = s.SetStage(context.Background(), 1, task.Stage("archived"))
	var invalid laneserrors.InvalidStageError
	if !errors.As(err, &invalid) {
		t.Errorf("SetStage(archived) error = %v, want InvalidStageError", err)
	}
}

func TestClearStage(t *testing.T) {
	s := NewStore(storage.NewMemoryKV(), seed.Static([]task.Task{
		{ID: 1, Type: task.StageDone, Text: "finished"},
		{ID: 2, Type: task.StageTodo, Text: "pending"},
	}), WithLogger(zaptest.NewLogger(t)))
	s.Load(context.Background())

	tasks := s.ClearStage(context.Background(), task.StageDone)
	if len(tasks) != 1 || tasks[0].ID != 2 {
		t.Errorf("ClearStage(done) = %v, want only the todo task", tasks)
	}
}

func TestPersistEmptyPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("empty list is persisted by default", func(t *testing.T) {
		kv := storage.NewMemoryKV()
		s := newTestStore(t, kv)
		s.Remove(ctx, 100)

		stored, ok := persisted(t, kv)
		if !ok || len(stored) != 0 {
			t.Errorf("persisted = %v (present %v), want an empty list", stored, ok)
		}

		// Reloading keeps the board empty instead of re-seeding
		reloaded := NewStore(kv, seed.Static(defaultTasks()))
		if got := reloaded.Load(ctx); len(got) != 0 {
			t.Errorf("reloaded board = %v, want empty", got)
		}
	})

	t.Run("empty list is skipped when disabled", func(t *testing.T) {
		kv := storage.NewMemoryKV()
		s := newTestStore(t, kv, WithPersistEmpty(false))
		if _, err := s.SetStage(ctx, 100, task.StageDone); err != nil {
			t.Fatal(err)
		}
		s.ClearStage(ctx, task.StageDone)

		stored, ok := persisted(t, kv)
		if !ok || len(stored) != 1 || stored[0].Type != task.StageDone {
			t.Errorf("persisted = %v, want the last non-empty list", stored)
		}
	})
}

// ctxKV refuses writes under a done context, like network backends do.
type ctxKV struct {
	*storage.MemoryKV
}

func (k ctxKV) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return k.MemoryKV.Set(ctx, key, value)
}

func TestMutationPersistsDespiteCancelledContext(t *testing.T) {
	kv := ctxKV{storage.NewMemoryKV()}
	s := newTestStore(t, kv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.SetStage(ctx, 100, task.StageDone); err != nil {
		t.Fatalf("SetStage failed: %v", err)
	}
	if s.Degraded() {
		t.Error("a cancelled caller should not degrade the store")
	}

	tasks, ok := persisted(t, kv)
	if !ok || len(tasks) != 1 || tasks[0].Type != task.StageDone {
		t.Errorf("persisted = %+v, want the moved task", tasks)
	}
}

func TestSubscribe(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryKV())
	ctx := context.Background()

	var calls [][]task.Task
	cancel := s.Subscribe(func(tasks []task.Task) {
		calls = append(calls, tasks)
	})

	if _, err := s.SetStage(ctx, 100, task.StageReview); err != nil {
		t.Fatal(err)
	}
	// No-op mutations do not notify
	s.Remove(ctx, 999)

	if len(calls) != 1 {
		t.Fatalf("subscriber called %d times, want 1", len(calls))
	}
	if calls[0][0].Type != task.StageReview {
		t.Errorf("notification carried %v, want updated list", calls[0])
	}

	cancel()
	s.ClearStage(ctx, task.StageReview)
	if len(calls) != 1 {
		t.Errorf("subscriber called after cancel")
	}
}

func TestSubscribeDeliversInMutationOrder(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryKV())
	ctx := context.Background()

	var (
		mu   sync.Mutex
		last []task.Task
		seen []int
	)
	s.Subscribe(func(tasks []task.Task) {
		mu.Lock()
		defer mu.Unlock()
		last = tasks
		seen = append(seen, len(tasks))
	})

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Add(ctx, task.Task{ID: int64(i + 1), Text: "t", StartDay: t0, EndDay: t0, Type: task.StageTodo}); err != nil {
				t.Errorf("Add failed: %v", err)
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(last) != len(s.List()) {
		t.Errorf("last notification has %d tasks, store has %d", len(last), len(s.List()))
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] <= seen[i-1] {
			t.Fatalf("notification %d carried %d tasks after %d", i, seen[i], seen[i-1])
		}
	}
}

func TestSubscriberMayReadStore(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryKV())

	var got int
	s.Subscribe(func([]task.Task) {
		got = len(s.List())
	})
	s.Remove(context.Background(), 100)

	if got != 0 {
		t.Errorf("List inside subscriber = %d tasks, want 0", got)
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryKV())

	list := s.List()
	list[0].Text = "mutated outside"

	if got, _ := s.Get(100); got.Text != "seeded" {
		t.Errorf("store leaked internal slice: Text = %q", got.Text)
	}
}

func ptr[T any](v T) *T {
	return &v
}
