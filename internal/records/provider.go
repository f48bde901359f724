// internal/records/provider.go
package records

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/saadbelcaidx/connector-os-sub007/internal/common/errors"
	"github.com/saadbelcaidx/connector-os-sub007/internal/common/logger"
	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
)

type DemandStore interface {
	DemandBySegment(ctx context.Context, segment string) ([]models.DemandRecord, error)
}

type SupplyStore interface {
	SupplyBySegment(ctx context.Context, segment string) ([]models.SupplyRecord, error)
}

type SupplySearcher interface {
	SupplyByCapability(ctx context.Context, segment, query string) ([]models.SupplyRecord, error)
}

type PoolCache interface {
	Get(ctx context.Context, key string) ([]models.SupplyRecord, bool, error)
	Set(ctx context.Context, key string, pool []models.SupplyRecord) error
}

// Store is satisfied by PostgresStore.
type Store interface {
	DemandStore
	SupplyStore
}

// Provider loads demand records and assembles supply pools from the
// configured sources.
type Provider struct {
	store  Store
	search SupplySearcher
	cache  PoolCache
	log    logger.Logger
}

type Option func(*Provider)

func WithSearch(search SupplySearcher) Option {
	return func(p *Provider) { p.search = search }
}

func WithCache(cache PoolCache) Option {
	return func(p *Provider) { p.cache = cache }
}

func WithLogger(log logger.Logger) Option {
	return func(p *Provider) { p.log = log }
}

func NewProvider(store Store, opts ...Option) *Provider {
	p := &Provider{store: store, log: logger.NewNoOpLogger()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Demand(ctx context.Context, segment string) ([]models.DemandRecord, error) {
	return p.store.DemandBySegment(ctx, segment)
}

// Supply returns the supply pool for segment. A cached pool is returned as
// is. Otherwise PostgreSQL and, when query is set, Elasticsearch are read
// concurrently and merged with duplicates removed by email.
func (p *Provider) Supply(ctx context.Context, segment, query string) ([]models.SupplyRecord, error) {
	key := CacheKey(segment, query)
	if p.cache != nil {
		pool, ok, err := p.cache.Get(ctx, key)
		switch {
		case err != nil:
			p.log.Warn("supply cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		case ok:
			p.log.Debug("supply cache hit", map[string]interface{}{"key": key, "size": len(pool)})
			return pool, nil
		}
	}

	var stored, found []models.SupplyRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stored, err = p.store.SupplyBySegment(gctx, segment)
		if err != nil {
			return errors.NewSupplyLoadFailedError(segment, err)
		}
		return nil
	})
	if p.search != nil && strings.TrimSpace(query) != "" {
		g.Go(func() error {
			var err error
			found, err = p.search.SupplyByCapability(gctx, segment, query)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pool := MergeSupply(stored, found)

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, pool); err != nil {
			p.log.Warn("supply cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	p.log.Info("supply pool loaded", map[string]interface{}{
		"segment":  segment,
		"stored":   len(stored),
		"searched": len(found),
		"pool":     len(pool),
	})
	return pool, nil
}

// MergeSupply concatenates the sources, keeps the first record per email
// (case-insensitive) and orders the pool by email then company. Records
// without an email are kept once per company.
func MergeSupply(sources ...[]models.SupplyRecord) []models.SupplyRecord {
	seen := map[string]bool{}
	var out []models.SupplyRecord
	for _, src := range sources {
		for _, rec := range src {
			key := strings.ToLower(strings.TrimSpace(rec.Email))
			if key == "" {
				key = "company:" + strings.ToLower(strings.TrimSpace(rec.Company))
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, rec)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ei, ej := strings.ToLower(out[i].Email), strings.ToLower(out[j].Email)
		if ei != ej {
			return ei < ej
		}
		return out[i].Company < out[j].Company
	})
	return out
}
