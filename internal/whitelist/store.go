package whitelist

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Trigger names what caused a refresh.
type Trigger string

const (
	TriggerStartup   Trigger = "startup"
	TriggerScheduled Trigger = "scheduled"
	TriggerRejection Trigger = "rejection"
	TriggerManual    Trigger = "manual"
)

// ListKind identifies one of the two upstream listings.
type ListKind string

const (
	ListLanguages ListKind = "languages"
	ListDomains   ListKind = "domains"
)

// DefaultRefreshInterval is the scheduled refresh period.
const DefaultRefreshInterval = 24 * time.Hour

// Fetcher reads the supported languages and domains from the upstream API.
type Fetcher interface {
	ListLanguages(ctx context.Context) ([]string, error)
	ListDomains(ctx context.Context) ([]string, error)
}

// Recorder persists refresh attempts. It is optional.
type Recorder interface {
	RecordRefresh(ctx context.Context, attempt Attempt) error
}

// Attempt describes one fetch of one listing.
type Attempt struct {
	Trigger    Trigger
	List       ListKind
	ItemCount  int
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// ListResult is the outcome of fetching one listing during a refresh.
type ListResult struct {
	Updated bool
	Count   int
	Err     error
}

// RefreshResult summarizes a refresh. Failures are reported here and never
// returned as an error.
type RefreshResult struct {
	Trigger   Trigger
	Languages ListResult
	Domains   ListResult
}

// Store holds the current whitelist snapshot. Readers never block; writers
// build a new snapshot and swap it in whole.
type Store struct {
	fetcher  Fetcher
	recorder Recorder
	logger   zerolog.Logger
	now      func() time.Time

	current atomic.Pointer[Snapshot]
	writeMu sync.Mutex
}

// NewStore returns a store with empty sets. recorder may be nil.
func NewStore(fetcher Fetcher, recorder Recorder, logger zerolog.Logger) *Store {
	s := &Store{
		fetcher:  fetcher,
		recorder: recorder,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
	s.current.Store(emptySnapshot())
	return s
}

// Snapshot returns the current immutable snapshot.
func (s *Store) Snapshot() *Snapshot {
	if s == nil {
		return emptySnapshot()
	}
	return s.current.Load()
}

func (s *Store) SupportsLanguage(code string) bool {
	return s.Snapshot().HasLanguage(code)
}

func (s *Store) SupportsDomain(name string) bool {
	return s.Snapshot().HasDomain(name)
}

// Refresh fetches both listings in parallel and replaces each set whose fetch
// succeeded. A failed fetch leaves its set untouched.
func (s *Store) Refresh(ctx context.Context, trigger Trigger) RefreshResult {
	result := RefreshResult{Trigger: trigger}
	if s == nil || s.fetcher == nil {
		return result
	}

	var g errgroup.Group
	g.Go(func() error {
		result.Languages = s.refreshList(ctx, trigger, ListLanguages, s.fetcher.ListLanguages)
		return nil
	})
	g.Go(func() error {
		result.Domains = s.refreshList(ctx, trigger, ListDomains, s.fetcher.ListDomains)
		return nil
	})
	_ = g.Wait()

	snap := s.Snapshot()
	s.logger.Info().
		Str("trigger", string(trigger)).
		Bool("languages_updated", result.Languages.Updated).
		Bool("domains_updated", result.Domains.Updated).
		Int("languages", snap.LanguageCount()).
		Int("domains", snap.DomainCount()).
		Msg("whitelist refresh finished")

	return result
}

func (s *Store) refreshList(
	ctx context.Context,
	trigger Trigger,
	kind ListKind,
	fetch func(context.Context) ([]string, error),
) ListResult {
	startedAt := s.now()
	items, err := fetch(ctx)
	finishedAt := s.now()

	attempt := Attempt{
		Trigger:    trigger,
		List:       kind,
		Err:        err,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}

	var result ListResult
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("trigger", string(trigger)).
			Str("list", string(kind)).
			Msg("whitelist fetch failed; keeping previous set")
		result.Err = err
	} else {
		set := newSet(items)
		s.replace(kind, set, finishedAt)
		attempt.ItemCount = len(set)
		result.Updated = true
		result.Count = len(set)
		s.logger.Debug().
			Str("trigger", string(trigger)).
			Str("list", string(kind)).
			Int("count", len(set)).
			Msg("whitelist set replaced")
	}

	s.record(ctx, attempt)
	return result
}

func (s *Store) replace(kind ListKind, set map[string]struct{}, at time.Time) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := *s.current.Load()
	switch kind {
	case ListLanguages:
		next.languages = set
		next.languagesUpdatedAt = at
	case ListDomains:
		next.domains = set
		next.domainsUpdatedAt = at
	}
	s.current.Store(&next)
}

func (s *Store) record(ctx context.Context, attempt Attempt) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordRefresh(ctx, attempt); err != nil {
		s.logger.Warn().
			Err(err).
			Str("list", string(attempt.List)).
			Msg("record whitelist refresh failed")
	}
}

// Run refreshes the whitelist every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if s == nil {
		return
	}
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", interval).Msg("whitelist refresh scheduler started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("whitelist refresh scheduler stopped")
			return
		case <-ticker.C:
			s.Refresh(ctx, TriggerScheduled)
		}
	}
}
