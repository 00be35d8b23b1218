// Package links implements the alias store: a bidirectional index from short
// aliases to target links, with per-alias usage metadata and a text-file
// persistence format.
package links

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/peppidesu/landmower/internal/queue"
)

// Metadata tracks usage of a single alias. Used and LastUsed are updated only
// by ApplyAccessBatch; Created never changes.
type Metadata struct {
	Used     uint64    `toml:"used" json:"used"`
	LastUsed time.Time `toml:"last_used" json:"last_used"`
	Created  time.Time `toml:"created" json:"created"`
}

// Entry is the stored association of an alias's target link and its usage
// metadata. Link is immutable after creation.
type Entry struct {
	Link     string   `toml:"link" json:"link"`
	Metadata Metadata `toml:"metadata" json:"metadata"`
}

func newEntry(link string) Entry {
	now := time.Now().UTC()
	return Entry{
		Link: link,
		Metadata: Metadata{
			Used:     0,
			LastUsed: now,
			Created:  now,
		},
	}
}

// Store holds the forward alias->Entry index and the reverse link->aliases
// index. The reverse index is derived entirely from the forward one and is
// never persisted. All methods are safe for concurrent use; reads take a
// shared lock, mutations an exclusive one.
type Store struct {
	mu      sync.RWMutex
	forward map[string]Entry
	reverse map[string][]string
}

func New() *Store {
	return &Store{
		forward: make(map[string]Entry),
		reverse: make(map[string][]string),
	}
}

// Add inserts a mapping from a derived alias to link. Repeated adds of the
// same link collapse onto the existing alias: created is false and the
// existing pair is returned unchanged, so callers know no re-persist is
// needed. Fails only with ErrKeyspaceExhausted.
func (s *Store) Add(link string) (alias string, e Entry, created bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alias, existing, err := s.deriveAlias(link)
	if err != nil {
		return "", Entry{}, false, err
	}
	if existing != nil {
		return alias, *existing, false, nil
	}

	e = newEntry(link)
	s.insert(alias, e)
	return alias, e, true, nil
}

// AddNamed inserts a mapping from a caller-chosen alias to link. Unlike Add,
// explicit aliases are never deduplicated: an occupied alias fails with
// ErrAliasInUse even if it already points at link.
func (s *Store) AddNamed(alias, link string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.forward[alias]; ok {
		return Entry{}, ErrAliasInUse
	}
	e := newEntry(link)
	s.insert(alias, e)
	return e, nil
}

// Get returns the entry for alias, if any.
func (s *Store) Get(alias string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.forward[alias]
	return e, ok
}

// Remove deletes alias from both indices and returns the removed entry. A
// missing alias reports ok=false, not an error.
func (s *Store) Remove(alias string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.forward[alias]
	if !ok {
		return Entry{}, false
	}
	delete(s.forward, alias)
	s.dropReverse(alias, e.Link)
	return e, true
}

// Restore re-inserts a previously removed entry with its original metadata.
// It exists so callers can roll back a removal whose persistence failed. A
// concurrently re-taken alias is left untouched.
func (s *Store) Restore(alias string, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.forward[alias]; ok {
		log.Error().Str("alias", alias).Msg("restore skipped: alias re-taken")
		return
	}
	s.insert(alias, e)
}

// FindByLink returns the aliases currently mapped to link, in no particular
// order. The result is a copy; it is empty when link has no aliases.
func (s *Store) FindByLink(link string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	aliases := s.reverse[link]
	out := make([]string, len(aliases))
	copy(out, aliases)
	return out
}

// Snapshot returns a copy of the forward index as of the call.
func (s *Store) Snapshot() map[string]Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Entry, len(s.forward))
	for alias, e := range s.forward {
		out[alias] = e
	}
	return out
}

// Len returns the number of stored aliases.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.forward)
}

// ApplyAccessBatch applies a batch of access events under a single exclusive
// acquisition: used is incremented and last_used advanced (never moved
// backwards) per event. Events for aliases removed since they were queued are
// discarded silently. Returns how many events were merged and discarded.
func (s *Store) ApplyAccessBatch(events []queue.Event) (merged, discarded int) {
	if len(events) == 0 {
		return 0, 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ev := range events {
		e, ok := s.forward[ev.Alias]
		if !ok {
			discarded++
			continue
		}
		e.Metadata.Used++
		if ev.Timestamp.After(e.Metadata.LastUsed) {
			e.Metadata.LastUsed = ev.Timestamp
		}
		s.forward[ev.Alias] = e
		merged++
	}
	return merged, discarded
}

// insert adds alias->e to both indices. Caller must hold the write lock and
// have checked that alias is vacant.
func (s *Store) insert(alias string, e Entry) {
	s.forward[alias] = e
	s.reverse[e.Link] = append(s.reverse[e.Link], alias)
}

// dropReverse removes alias from the reverse bucket for link, deleting the
// bucket when it empties. Caller must hold the write lock. A missing bucket
// or alias means the indices were already corrupt; that is logged and
// tolerated rather than propagated, since the forward removal itself is fine.
func (s *Store) dropReverse(alias, link string) {
	bucket, ok := s.reverse[link]
	if !ok {
		log.Error().Str("alias", alias).Str("link", link).Msg("reverse index bucket missing")
		return
	}
	for i, a := range bucket {
		if a == alias {
			bucket[i] = bucket[len(bucket)-1]
			bucket = bucket[:len(bucket)-1]
			if len(bucket) == 0 {
				delete(s.reverse, link)
			} else {
				s.reverse[link] = bucket
			}
			return
		}
	}
	log.Error().Str("alias", alias).Str("link", link).Msg("reverse index entry missing")
}
