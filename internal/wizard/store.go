package wizard

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/lankaspa/portal/internal/model"
)

// ErrSessionNotFound is returned when a wizard session has expired or never
// existed.
var ErrSessionNotFound = fmt.Errorf("wizard session not found")

// Store keeps live wizard sessions in memory with a TTL. Abandoned sessions
// expire instead of accumulating. Each session has a single owner; the store
// serialises access so edits apply in the order they arrive.
type Store struct {
	mu    sync.Mutex
	cache *gocache.Cache
}

func NewStore(ttl, cleanupInterval time.Duration) *Store {
	return &Store{
		cache: gocache.New(ttl, cleanupInterval),
	}
}

// Create opens a new session on step 1 and returns it.
func (st *Store) Create() *model.WizardSession {
	st.mu.Lock()
	defer st.mu.Unlock()

	s := model.NewWizardSession(uuid.New().String())
	st.cache.Set(s.ID, s, gocache.DefaultExpiration)
	return s
}

// Get returns a copy-safe reference to the session with the given ID.
func (st *Store) Get(id string) (*model.WizardSession, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	return st.get(id)
}

// Update applies fn to the session under the store lock and refreshes its
// TTL. fn errors propagate unchanged.
func (st *Store) Update(id string, fn func(*model.WizardSession) error) (*model.WizardSession, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, err := st.get(id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}

	st.cache.Set(s.ID, s, gocache.DefaultExpiration)
	return s, nil
}

// Delete destroys a session, used on successful submission and explicit
// cancel.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.cache.Delete(id)
}

func (st *Store) get(id string) (*model.WizardSession, error) {
	v, ok := st.cache.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	s, ok := v.(*model.WizardSession)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}
