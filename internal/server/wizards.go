package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/karlseguin/ccache/v3"

	"github.com/kash05/court-connect/internal/wizard"
)

// wizardSession is one owner's in-progress property wizard. The
// orchestrator is single-writer, so every access goes through mu.
type wizardSession struct {
	mu        sync.Mutex
	id        string
	ownerID   string
	createdAt string
	orch      *wizard.Orchestrator
}

// ErrRegistryFull is returned by Create when every slot holds a live
// session.
var ErrRegistryFull = errors.New("too many wizards in progress")

// WizardRegistry holds live wizard sessions in memory. A session that is
// not touched for the idle TTL is dropped as abandoned. Live sessions are
// never evicted to make room; Create refuses instead.
type WizardRegistry struct {
	mu    sync.Mutex // serializes Create's capacity check
	cache *ccache.Cache[*wizardSession]
	ttl   time.Duration
	max   int64
}

func NewWizardRegistry(ttl time.Duration, maxSessions int64) *WizardRegistry {
	return &WizardRegistry{
		cache: ccache.New(ccache.Configure[*wizardSession]().MaxSize(maxSessions).ItemsToPrune(1)),
		ttl:   ttl,
		max:   maxSessions,
	}
}

func (r *WizardRegistry) Create(ownerID string, s wizard.Submitter) (*wizardSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if int64(r.Len()) >= r.max {
		r.cache.DeleteFunc(func(_ string, item *ccache.Item[*wizardSession]) bool {
			return item.Expired()
		})
		if int64(r.Len()) >= r.max {
			return nil, ErrRegistryFull
		}
	}

	sess := &wizardSession{
		id:        newID(),
		ownerID:   ownerID,
		createdAt: nowUTC(),
		orch:      wizard.NewOrchestrator(s),
	}
	r.cache.Set(sess.id, sess, r.ttl)
	return sess, nil
}

// Get returns the session and extends its lifetime. Sessions of other
// owners are reported as missing.
func (r *WizardRegistry) Get(id, ownerID string) (*wizardSession, error) {
	item := r.cache.Get(id)
	if item == nil || item.Expired() {
		return nil, ErrNotFound
	}
	sess := item.Value()
	if sess.ownerID != ownerID {
		return nil, ErrNotFound
	}
	item.Extend(r.ttl)
	return sess, nil
}

func (r *WizardRegistry) Delete(id, ownerID string) error {
	if _, err := r.Get(id, ownerID); err != nil {
		return err
	}
	r.cache.Delete(id)
	return nil
}

func (r *WizardRegistry) Len() int { return r.cache.ItemCount() }

// Check reports the registry unhealthy once it is full, since Create then
// turns owners away.
func (r *WizardRegistry) Check(context.Context) error {
	if n := int64(r.Len()); n >= r.max {
		return fmt.Errorf("wizard registry full: %d of %d sessions", n, r.max)
	}
	return nil
}

// Stop releases the cache's background worker.
func (r *WizardRegistry) Stop() { r.cache.Stop() }
