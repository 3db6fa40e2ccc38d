// Package board owns the task list: the store every surface mutates through,
// the per-column view derived from it, and the gesture handlers that drive it.
package board

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	laneserrors "github.com/abatilo/lanes/internal/errors"
	"github.com/abatilo/lanes/internal/seed"
	"github.com/abatilo/lanes/internal/storage"
	"github.com/abatilo/lanes/internal/task"
)

// Store holds the canonical task list and mirrors it to a KV after every mutation.
type Store struct {
	mu           sync.Mutex
	tasks        []task.Task
	kv           storage.KV
	key          string
	seed         seed.Loader
	persistEmpty bool
	degraded     bool
	log          *zap.Logger

	// notifyMu is taken before mu is released so notifications go out in
	// mutation order.
	notifyMu sync.Mutex
	subMu    sync.Mutex
	subs     map[int]func([]task.Task)
	nextID   int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for fail-soft recoveries.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithKey overrides the storage key the list is kept under.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithPersistEmpty controls whether an empty list is written. Disabling it means
// clearing the whole board does not survive a restart.
func WithPersistEmpty(persist bool) Option {
	return func(s *Store) { s.persistEmpty = persist }
}

// NewStore creates a Store. Call Load before use.
func NewStore(kv storage.KV, loader seed.Loader, opts ...Option) *Store {
	s := &Store{
		kv:           kv,
		key:          storage.TasksKey,
		seed:         loader,
		persistEmpty: true,
		log:          zap.NewNop(),
		subs:         make(map[int]func([]task.Task)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seed == nil {
		s.seed = seed.Static(nil)
	}
	return s
}

// Load reads the persisted list, falling back to the seed when nothing usable
// is stored. It never fails; problems are logged and recovered from.
func (s *Store) Load(ctx context.Context) []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.kv.Get(ctx, s.key)
	switch {
	case err != nil:
		s.log.Warn("board storage unavailable, keeping board in memory", zap.Error(err))
		s.degrade()
		s.tasks = s.defaults()
	case !ok || len(data) == 0:
		s.tasks = s.defaults()
	default:
		tasks, decodeErr := storage.DecodeTasks(data)
		if decodeErr != nil {
			s.log.Warn("persisted board is malformed, using defaults", zap.Error(decodeErr))
			s.tasks = s.defaults()
		} else {
			s.tasks = tasks
		}
	}

	return s.snapshot()
}

func (s *Store) defaults() []task.Task {
	tasks, err := s.seed.Load()
	if err != nil {
		s.log.Warn("default tasks unavailable, starting empty", zap.Error(err))
		return []task.Task{}
	}
	if tasks == nil {
		return []task.Task{}
	}
	return tasks
}

// Save writes the full list to storage. Write failures switch the store to an
// in-memory KV for the rest of the session.
func (s *Store) Save(ctx context.Context, tasks []task.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(ctx, tasks)
}

// save is Save for callers already holding s.mu. The in-memory list has
// already changed, so the write goes through even if ctx is cancelled.
func (s *Store) save(ctx context.Context, tasks []task.Task) {
	if len(tasks) == 0 && !s.persistEmpty {
		return
	}
	ctx = context.WithoutCancel(ctx)

	data, err := storage.EncodeTasks(tasks)
	if err != nil {
		s.log.Error("encode board", zap.Error(err))
		return
	}
	if err = s.kv.Set(ctx, s.key, data); err != nil {
		s.log.Warn("board storage write failed, keeping board in memory", zap.Error(err))
		s.degrade()
		_ = s.kv.Set(ctx, s.key, data)
	}
}

// degrade swaps the backend for memory. Callers hold s.mu.
func (s *Store) degrade() {
	if s.degraded {
		return
	}
	s.degraded = true
	s.kv = storage.NewMemoryKV()
}

// Degraded reports whether the store fell back to in-memory operation.
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// List returns a copy of the current list.
func (s *Store) List() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Get looks a task up by id.
func (s *Store) Get(id int64) (task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, false
	}
	return s.tasks[i], true
}

// Exists reports whether a task with id is on the board.
func (s *Store) Exists(id int64) bool {
	_, ok := s.Get(id)
	return ok
}

// Add appends a task. Its id must be unique.
func (s *Store) Add(ctx context.Context, t task.Task) ([]task.Task, error) {
	if !task.IsValidStage(t.Type) {
		return s.List(), laneserrors.InvalidStageError{Value: string(t.Type)}
	}
	return s.mutate(ctx, func(tasks []task.Task) ([]task.Task, error) {
		if slices.ContainsFunc(tasks, func(x task.Task) bool { return x.ID == t.ID }) {
			return nil, laneserrors.AlreadyExistsError{ID: t.ID}
		}
		return append(tasks, t), nil
	})
}

// Update replaces the task with the same id. Unknown ids leave the list unchanged.
func (s *Store) Update(ctx context.Context, updated task.Task) ([]task.Task, error) {
	if !task.IsValidStage(updated.Type) {
		return s.List(), laneserrors.InvalidStageError{Value: string(updated.Type)}
	}
	return s.mutate(ctx, func(tasks []task.Task) ([]task.Task, error) {
		for i := range tasks {
			if tasks[i].ID == updated.ID {
				tasks[i] = updated
				return tasks, nil
			}
		}
		return nil, nil
	})
}

// Remove deletes the task with id. Unknown ids leave the list unchanged.
func (s *Store) Remove(ctx context.Context, id int64) []task.Task {
	tasks, _ := s.mutate(ctx, func(tasks []task.Task) ([]task.Task, error) {
		out := slices.DeleteFunc(tasks, func(t task.Task) bool { return t.ID == id })
		if len(out) == len(s.tasks) {
			return nil, nil
		}
		return out, nil
	})
	return tasks
}

// SetStage moves a task to another column, leaving its other fields untouched.
func (s *Store) SetStage(ctx context.Context, id int64, stage task.Stage) ([]task.Task, error) {
	if !task.IsValidStage(stage) {
		return s.List(), laneserrors.InvalidStageError{Value: string(stage)}
	}
	return s.mutate(ctx, func(tasks []task.Task) ([]task.Task, error) {
		for i := range tasks {
			if tasks[i].ID == id {
				tasks[i].Type = stage
				return tasks, nil
			}
		}
		return nil, nil
	})
}

// ClearStage removes every task in a stage.
func (s *Store) ClearStage(ctx context.Context, stage task.Stage) []task.Task {
	tasks, _ := s.mutate(ctx, func(tasks []task.Task) ([]task.Task, error) {
		out := slices.DeleteFunc(tasks, func(t task.Task) bool { return t.Type == stage })
		if len(out) == len(s.tasks) {
			return nil, nil
		}
		return out, nil
	})
	return tasks
}

// mutate applies fn to a working copy. fn returns nil to signal "no change";
// otherwise the result becomes the new list, is persisted, and subscribers fire.
func (s *Store) mutate(ctx context.Context, fn func([]task.Task) ([]task.Task, error)) ([]task.Task, error) {
	s.mu.Lock()
	next, err := fn(s.snapshot())
	if err != nil || next == nil {
		snap := s.snapshot()
		s.mu.Unlock()
		return snap, err
	}
	s.tasks = next
	s.save(ctx, s.tasks)
	snap := s.snapshot()
	s.notifyMu.Lock()
	s.mu.Unlock()

	s.notify(snap)
	s.notifyMu.Unlock()
	return snap, nil
}

// Subscribe registers fn to receive the new list after every mutation, in
// mutation order. fn may read the store but must not mutate it.
// The returned func unregisters it.
func (s *Store) Subscribe(fn func([]task.Task)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(tasks []task.Task) {
	s.subMu.Lock()
	fns := make([]func([]task.Task), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(slices.Clone(tasks))
	}
}

func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.tasks, func(t task.Task) bool { return t.ID == id })
}

func (s *Store) snapshot() []task.Task {
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}
