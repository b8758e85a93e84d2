// Package ledger remembers which posts this device has liked.
//
// The ledger is this browsing profile's endorsement memory. It is not
// reconciled with the server's aggregate like counters or with likes made
// on other devices.
package ledger

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/bryan-buckman/newsdesk/internal/database"
	"github.com/bryan-buckman/newsdesk/internal/model"
)

// Ledger is a persisted set of liked post ids. It is safe for concurrent use.
type Ledger struct {
	store database.Store
	key   string
	mu    sync.Mutex
}

// New returns a ledger persisted under model.KeyLikedPosts in store.
func New(store database.Store) *Ledger {
	return &Ledger{store: store, key: model.KeyLikedPosts}
}

// load reads the stored id list. A missing, unreadable or corrupt value is
// treated as an empty set; a corrupt value is removed from the store.
func (l *Ledger) load() []string {
	raw, ok, err := l.store.GetItem(l.key)
	if err != nil {
		log.Printf("ledger: read %s: %v", l.key, err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		log.Printf("ledger: discarding unparsable %s: %v", l.key, err)
		if err := l.store.RemoveItem(l.key); err != nil {
			log.Printf("ledger: remove %s: %v", l.key, err)
		}
		return nil
	}
	return ids
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// HasLiked reports whether id has been liked from this device.
func (l *Ledger) HasLiked(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return contains(l.load(), id)
}

// MarkLiked records id. Marking an id that is already present is a no-op.
func (l *Ledger) MarkLiked(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := l.load()
	if contains(ids, id) {
		return nil
	}
	ids = append(ids, id)
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := l.store.SetItem(l.key, string(data)); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}
