package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"mindwell_backend/internal/config"
	"mindwell_backend/internal/model"
	"mindwell_backend/internal/util"
	"mindwell_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const catalogCacheKey = "mindwell:catalog"

// CatalogService serves the question catalog with the offline fallback chain
// of the mobile client: remote provider first, then the redis cache a
// previous fetch left behind, then the bundled file. Only when every source
// fails does starting an assessment fail.
type CatalogService struct {
	cfg    config.CatalogConfig
	rdb    *redis.Client
	client *http.Client

	mu     sync.Mutex
	cached *model.Catalog
}

func NewCatalogService(cfg config.CatalogConfig, rdb *redis.Client) *CatalogService {
	return &CatalogService{
		cfg:    cfg,
		rdb:    rdb,
		client: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// Questions returns the ordered catalog, optionally filtered by category.
func (s *CatalogService) Questions(ctx context.Context, category model.Category) ([]model.Question, error) {
	if category != "" && !model.IsValidCategory(category) {
		return nil, util.Validationf("unknown question category %q", category)
	}

	catalog, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if category != "" {
		return catalog.FilterByCategory(category), nil
	}
	questions := make([]model.Question, len(catalog.Questions))
	copy(questions, catalog.Questions)
	return questions, nil
}

func (s *CatalogService) Categories() []model.CategoryInfo {
	return model.AllCategoriesInfo()
}

// load resolves the catalog once per app run and keeps it in memory; the
// fallback chain only reruns if the first resolution failed.
func (s *CatalogService) load(ctx context.Context) (*model.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return s.cached, nil
	}

	if s.cfg.ProviderURL != "" {
		catalog, err := s.fetchRemote(ctx)
		if err == nil {
			s.cacheRemote(ctx, catalog)
			s.cached = catalog
			return catalog, nil
		}
		logger.Log.Warn("catalog provider unreachable, trying cache", zap.Error(err))

		if catalog, err := s.readCache(ctx); err == nil {
			s.cached = catalog
			return catalog, nil
		}
	}

	catalog, err := model.LoadCatalog(s.cfg.BundledPath)
	if err != nil {
		return nil, util.Transient("no catalog source available", err)
	}
	s.cached = catalog
	return catalog, nil
}

func (s *CatalogService) fetchRemote(ctx context.Context) (*model.Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.ProviderURL+"/questions", nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, util.Transient("catalog fetch failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, util.Transient(fmt.Sprintf("catalog provider returned %d", resp.StatusCode), nil)
	}

	var catalog model.Catalog
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

func (s *CatalogService) cacheRemote(ctx context.Context, catalog *model.Catalog) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(catalog)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, catalogCacheKey, data, s.cfg.CacheTTL).Err(); err != nil {
		logger.Log.Warn("failed to cache catalog", zap.Error(err))
	}
}

func (s *CatalogService) readCache(ctx context.Context) (*model.Catalog, error) {
	if s.rdb == nil {
		return nil, redis.Nil
	}
	data, err := s.rdb.Get(ctx, catalogCacheKey).Bytes()
	if err != nil {
		return nil, err
	}
	var catalog model.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, &util.StorageCorruptionError{Err: err}
	}
	return &catalog, nil
}
