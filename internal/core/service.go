package core

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/peppidesu/landmower/internal/links"
	"github.com/peppidesu/landmower/internal/metrics"
	"github.com/peppidesu/landmower/internal/queue"
)

// Service ties the alias store to its persistence path and the access event
// pipeline. Mutations are persisted immediately; a failed save rolls the
// in-memory change back before the error is reported, so callers are never
// told a mutation succeeded while it is not durable.
type Service struct {
	store    *links.Store
	events   *queue.Queue
	dataPath string
	interval time.Duration
}

func NewService(store *links.Store, events *queue.Queue, dataPath string, mergeInterval time.Duration) *Service {
	if mergeInterval <= 0 {
		mergeInterval = 200 * time.Millisecond
	}
	return &Service{
		store:    store,
		events:   events,
		dataPath: dataPath,
		interval: mergeInterval,
	}
}

// Add creates a mapping with a derived alias. Re-adding an already mapped
// link returns the existing pair without touching disk.
func (s *Service) Add(link string) (string, links.Entry, error) {
	alias, e, created, err := s.store.Add(link)
	if err != nil {
		return "", links.Entry{}, err
	}
	if !created {
		return alias, e, nil
	}
	if err := s.store.Save(s.dataPath); err != nil {
		s.store.Remove(alias)
		return "", links.Entry{}, err
	}
	metrics.LinksCreated.Inc()
	return alias, e, nil
}

// AddNamed creates a mapping with a caller-chosen alias.
func (s *Service) AddNamed(alias, link string) (links.Entry, error) {
	e, err := s.store.AddNamed(alias, link)
	if err != nil {
		return links.Entry{}, err
	}
	if err := s.store.Save(s.dataPath); err != nil {
		s.store.Remove(alias)
		return links.Entry{}, err
	}
	metrics.LinksCreated.Inc()
	return e, nil
}

func (s *Service) Get(alias string) (links.Entry, bool) {
	return s.store.Get(alias)
}

func (s *Service) List() map[string]links.Entry {
	return s.store.Snapshot()
}

func (s *Service) FindByLink(link string) []string {
	return s.store.FindByLink(link)
}

// Remove deletes a mapping. Returns links.ErrNotFound for an absent alias.
func (s *Service) Remove(alias string) (links.Entry, error) {
	e, ok := s.store.Remove(alias)
	if !ok {
		return links.Entry{}, links.ErrNotFound
	}
	if err := s.store.Save(s.dataPath); err != nil {
		s.store.Restore(alias, e)
		return links.Entry{}, err
	}
	metrics.LinksDeleted.Inc()
	return e, nil
}

// Resolve returns the target link for alias. It takes only a shared lock and
// is the hot path behind every redirect.
func (s *Service) Resolve(alias string) (string, bool) {
	e, ok := s.store.Get(alias)
	if !ok {
		return "", false
	}
	return e.Link, true
}

// RecordAccess enqueues one usage notification for alias. It never blocks; a
// full queue drops the event and the redirect still succeeds.
func (s *Service) RecordAccess(alias string) {
	ev := queue.Event{Alias: alias, Timestamp: time.Now().UTC()}
	if !s.events.Push(ev) {
		metrics.EventsDropped.Inc()
		log.Warn().Str("alias", alias).Msg("access event dropped: queue full")
		return
	}
	metrics.EventsQueued.Inc()
}

// RunMerger periodically drains the access event queue into the store until
// ctx is cancelled. Usage metadata lags live traffic by at most one interval.
func (s *Service) RunMerger(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			s.mergeOnce()
		case <-ctx.Done():
			return
		}
	}
}

// mergeOnce drains the queue completely, then applies the whole batch under
// one exclusive store acquisition.
func (s *Service) mergeOnce() (merged, discarded int) {
	if s.events.Len() == 0 {
		return 0, 0
	}
	batch := make([]queue.Event, 0, s.events.Len())
	for {
		ev, ok := s.events.TryPop()
		if !ok {
			break
		}
		batch = append(batch, ev)
	}

	merged, discarded = s.store.ApplyAccessBatch(batch)
	metrics.EventsMerged.Add(float64(merged))
	metrics.EventsDiscarded.Add(float64(discarded))
	if discarded > 0 {
		log.Debug().Int("discarded", discarded).Msg("dropped access events for removed aliases")
	}
	return merged, discarded
}
