package report

import (
	"sync"
	"time"

	"github.com/erp/pos-reports/internal/domain/report"
	"github.com/erp/pos-reports/internal/domain/shared"
	"github.com/google/uuid"
)

// Workspace defaults
const (
	DefaultWorkspaceIdleTTL         = 30 * time.Minute
	defaultWorkspaceCleanupInterval = 5 * time.Minute
)

// ErrWorkspaceNotFound is returned for unknown or expired workspaces
var ErrWorkspaceNotFound = shared.NewDomainError("WORKSPACE_NOT_FOUND", "Workspace not found or expired")

// ControllerFactory creates the controller of a new workspace
type ControllerFactory func(t report.Type) *Controller

type workspace struct {
	controller *Controller
	lastAccess time.Time
}

// WorkspaceStore keeps one Controller per workspace in memory. Workspaces
// idle for longer than the TTL are evicted by a background loop.
type WorkspaceStore struct {
	mu              sync.RWMutex
	workspaces      map[uuid.UUID]*workspace
	newController   ControllerFactory
	idleTTL         time.Duration
	cleanupInterval time.Duration
	now             func() time.Time

	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// WorkspaceOption configures a WorkspaceStore
type WorkspaceOption func(*WorkspaceStore)

// WithWorkspaceClock overrides the clock used for idle tracking
func WithWorkspaceClock(now func() time.Time) WorkspaceOption {
	return func(s *WorkspaceStore) {
		s.now = now
	}
}

// WithCleanupInterval sets how often idle workspaces are evicted
func WithCleanupInterval(d time.Duration) WorkspaceOption {
	return func(s *WorkspaceStore) {
		if d > 0 {
			s.cleanupInterval = d
		}
	}
}

// NewWorkspaceStore creates a store and starts its cleanup goroutine.
// Call Close to stop it.
func NewWorkspaceStore(newController ControllerFactory, idleTTL time.Duration, opts ...WorkspaceOption) *WorkspaceStore {
	if idleTTL <= 0 {
		idleTTL = DefaultWorkspaceIdleTTL
	}
	s := &WorkspaceStore{
		workspaces:      make(map[uuid.UUID]*workspace),
		newController:   newController,
		idleTTL:         idleTTL,
		cleanupInterval: defaultWorkspaceCleanupInterval,
		now:             time.Now,
		stopChan:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

// Create opens a workspace on report type t
func (s *WorkspaceStore) Create(t report.Type) (uuid.UUID, *Controller, error) {
	if !t.IsValid() {
		return uuid.Nil, nil, report.NewInvalidTypeError(string(t))
	}
	id := uuid.New()
	c := s.newController(t)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaces[id] = &workspace{controller: c, lastAccess: s.now()}
	return id, c, nil
}

// Get returns the controller of workspace id and refreshes its idle timer
func (s *WorkspaceStore) Get(id uuid.UUID) (*Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workspaces[id]
	if !ok {
		return nil, ErrWorkspaceNotFound
	}
	now := s.now()
	if now.Sub(w.lastAccess) > s.idleTTL {
		delete(s.workspaces, id)
		return nil, ErrWorkspaceNotFound
	}
	w.lastAccess = now
	return w.controller, nil
}

// Delete removes workspace id. Deleting an unknown workspace is not an error.
func (s *WorkspaceStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workspaces, id)
}

// EvictIdle removes workspaces idle for longer than the TTL and returns how many were removed
func (s *WorkspaceStore) EvictIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	evicted := 0
	for id, w := range s.workspaces {
		if now.Sub(w.lastAccess) > s.idleTTL {
			delete(s.workspaces, id)
			evicted++
		}
	}
	return evicted
}

// Size returns the number of live workspaces
func (s *WorkspaceStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workspaces)
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *WorkspaceStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *WorkspaceStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.EvictIdle()
		}
	}
}
