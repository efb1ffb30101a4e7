package reference

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Domenick1991/flightcart/internal/domain"
	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Durable store keys for the two reference maps.
const (
	CitiesKey   = "cities"
	AirlinesKey = "airlines"
)

type ReferenceUseCase interface {
	Hydrate(ctx context.Context) (cities, airlines domain.ReferenceMap, ready bool)
	Rehydrate(ctx context.Context) error
	Invalidate(ctx context.Context) error
	Ready() bool
	WaitReady(ctx context.Context) error
	Err() error
	TranslateCity(code string) domain.Name
	TranslateAirline(code string) domain.Name
}

// Store is the durable blob store. Get returns nil, nil on a miss.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Deleter is implemented by stores that can drop persisted blobs.
type Deleter interface {
	Delete(ctx context.Context, keys ...string) error
}

// Source fetches the remote reference lists.
type Source interface {
	Cities(ctx context.Context) ([]domain.ReferenceEntry, error)
	Airlines(ctx context.Context) ([]domain.ReferenceEntry, error)
}

type ReferenceService struct {
	store  Store
	source Source
	log    logrus.FieldLogger

	attempts uint64
	backoff  time.Duration

	hydrateOnce sync.Once
	readyCh     chan struct{}

	mu       sync.RWMutex
	cities   domain.ReferenceMap
	airlines domain.ReferenceMap
	ready    bool
	err      error
	// gen counts installs. A fetch only installs if no newer install happened meanwhile.
	gen uint64
}

type ReferenceServiceOption func(*ReferenceService)

// WithRetry makes the remote fetch try up to attempts times with exponential backoff.
func WithRetry(attempts uint64, backoff time.Duration) ReferenceServiceOption {
	return func(s *ReferenceService) {
		if attempts > 0 {
			s.attempts = attempts
		}
		if backoff > 0 {
			s.backoff = backoff
		}
	}
}

func NewReferenceService(store Store, source Source, log logrus.FieldLogger, opts ...ReferenceServiceOption) *ReferenceService {
	s := &ReferenceService{
		store:    store,
		source:   source,
		log:      log,
		attempts: 1,
		backoff:  500 * time.Millisecond,
		readyCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate loads both maps from the store, or on a miss fetches them remotely
// and persists them. It runs once; later calls return the installed maps.
// A failed remote fetch leaves the installed maps as they are, empty unless a
// Rehydrate won meanwhile, and still marks the cache ready.
func (s *ReferenceService) Hydrate(ctx context.Context) (domain.ReferenceMap, domain.ReferenceMap, bool) {
	s.hydrateOnce.Do(func() {
		s.hydrate(ctx)
	})
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cities, s.airlines, s.ready
}

func (s *ReferenceService) hydrate(ctx context.Context) {
	defer s.markReady()
	gen := s.generation()

	if cities, airlines, ok := s.loadCached(ctx); ok {
		if s.installIfCurrent(gen, cities, airlines) {
			s.log.WithFields(logrus.Fields{"cities": cities.Len(), "airlines": airlines.Len()}).Info("reference data loaded from cache")
		}
		return
	}

	cities, airlines, err := s.fetchWithRetry(ctx)
	if err != nil {
		s.log.WithError(err).Error("error fetching reference data")
		s.failIfCurrent(gen, err)
		return
	}

	if !s.installIfCurrent(gen, cities, airlines) {
		s.log.Debug("discarding reference data superseded by a refresh")
		return
	}
	s.persist(ctx, cities, airlines)
	s.log.WithFields(logrus.Fields{"cities": cities.Len(), "airlines": airlines.Len()}).Info("reference data fetched")
}

// Rehydrate re-runs the remote fetch. The installed maps are replaced only on success.
func (s *ReferenceService) Rehydrate(ctx context.Context) error {
	gen := s.generation()
	cities, airlines, err := s.fetchWithRetry(ctx)
	if err != nil {
		s.failIfCurrent(gen, err)
		return err
	}
	s.install(cities, airlines)
	s.persist(ctx, cities, airlines)
	s.markReady()
	return nil
}

// Invalidate drops the persisted blobs so the next process start fetches
// fresh reference data. The maps already installed are kept.
func (s *ReferenceService) Invalidate(ctx context.Context) error {
	d, ok := s.store.(Deleter)
	if !ok {
		return nil
	}
	if err := d.Delete(ctx, CitiesKey, AirlinesKey); err != nil {
		return fmt.Errorf("invalidate reference cache: %w", err)
	}
	s.log.Info("reference cache invalidated")
	return nil
}

func (s *ReferenceService) loadCached(ctx context.Context) (domain.ReferenceMap, domain.ReferenceMap, bool) {
	if s.store == nil {
		return domain.ReferenceMap{}, domain.ReferenceMap{}, false
	}
	cities, ok := s.loadBlob(ctx, CitiesKey)
	if !ok {
		return domain.ReferenceMap{}, domain.ReferenceMap{}, false
	}
	airlines, ok := s.loadBlob(ctx, AirlinesKey)
	if !ok {
		return domain.ReferenceMap{}, domain.ReferenceMap{}, false
	}
	return cities, airlines, true
}

func (s *ReferenceService) loadBlob(ctx context.Context, key string) (domain.ReferenceMap, bool) {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("reference cache read failed")
		return domain.ReferenceMap{}, false
	}
	if data == nil {
		return domain.ReferenceMap{}, false
	}
	var m domain.ReferenceMap
	if err := json.Unmarshal(data, &m); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("reference cache entry is corrupt")
		return domain.ReferenceMap{}, false
	}
	return m, true
}

func (s *ReferenceService) fetchWithRetry(ctx context.Context) (domain.ReferenceMap, domain.ReferenceMap, error) {
	var cities, airlines domain.ReferenceMap
	b := retry.WithMaxRetries(s.attempts-1, retry.NewExponential(s.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		var err error
		cities, airlines, err = s.fetch(ctx)
		if err != nil {
			if domain.IsTransport(err) {
				s.log.WithError(err).Warn("reference fetch failed, retrying")
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	return cities, airlines, err
}

// fetch issues both requests concurrently. Either failure fails both.
func (s *ReferenceService) fetch(ctx context.Context) (domain.ReferenceMap, domain.ReferenceMap, error) {
	var cityEntries, airlineEntries []domain.ReferenceEntry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cityEntries, err = s.source.Cities(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		airlineEntries, err = s.source.Airlines(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.ReferenceMap{}, domain.ReferenceMap{}, err
	}

	return domain.ReduceReference(cityEntries), domain.ReduceReference(airlineEntries), nil
}

// persist is best effort: failures are logged and not retried.
func (s *ReferenceService) persist(ctx context.Context, cities, airlines domain.ReferenceMap) {
	if s.store == nil {
		return
	}
	for key, m := range map[string]domain.ReferenceMap{CitiesKey: cities, AirlinesKey: airlines} {
		data, err := json.Marshal(m)
		if err != nil {
			s.log.WithError(err).WithField("key", key).Warn("encode reference data")
			continue
		}
		if err := s.store.Set(ctx, key, data); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("reference cache write failed")
		}
	}
}

func (s *ReferenceService) generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// install swaps in both maps unconditionally and clears the error.
func (s *ReferenceService) install(cities, airlines domain.ReferenceMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.installLocked(cities, airlines)
}

// installIfCurrent installs only if nothing was installed since gen was read.
func (s *ReferenceService) installIfCurrent(gen uint64, cities, airlines domain.ReferenceMap) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.installLocked(cities, airlines)
	return true
}

func (s *ReferenceService) installLocked(cities, airlines domain.ReferenceMap) {
	s.gen++
	s.cities = cities
	s.airlines = airlines
	s.err = nil
}

// failIfCurrent records err unless a newer install already succeeded. The
// installed maps are never touched.
func (s *ReferenceService) failIfCurrent(gen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		s.err = err
	}
}

func (s *ReferenceService) markReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return
	}
	s.ready = true
	close(s.readyCh)
}

func (s *ReferenceService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// WaitReady blocks until hydration has finished or ctx is done.
func (s *ReferenceService) WaitReady(ctx context.Context) error {
	select {
	case <-s.readyCh:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for reference data: %w", ctx.Err())
	}
}

// Err returns the error of the last remote fetch, if it failed.
func (s *ReferenceService) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *ReferenceService) TranslateCity(code string) domain.Name {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cities.Lookup(code)
}

func (s *ReferenceService) TranslateAirline(code string) domain.Name {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.airlines.Lookup(code)
}

var _ ReferenceUseCase = (*ReferenceService)(nil)
