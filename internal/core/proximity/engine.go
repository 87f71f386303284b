package proximity

import (
	"fmt"

	"github.com/furqan-y-khan/workify/internal/core/domain"
)

const (
	DefaultPageSize = 10
	DefaultMaxPage  = 100
)

type EngineConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Engine - синхронный движок поиска: валидация, фильтр, ранжирование, пагинация.
// Состояния не хранит, безопасен для конкурентного использования.
type Engine struct {
	defaultPageSize int
	maxPageSize     int
}

func NewEngine(cfg EngineConfig) *Engine {
	if cfg.DefaultPageSize < 1 {
		cfg.DefaultPageSize = DefaultPageSize
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = DefaultMaxPage
		if cfg.MaxPageSize < cfg.DefaultPageSize {
			cfg.MaxPageSize = cfg.DefaultPageSize
		}
	}
	return &Engine{defaultPageSize: cfg.DefaultPageSize, maxPageSize: cfg.MaxPageSize}
}

// Search выполняет поиск по уже загруженным кандидатам.
// Пустой результат это валидный результат, не ошибка.
func (e *Engine) Search(candidates []domain.Candidate, req domain.SearchRequest) (*domain.SearchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	key, err := domain.ParseSortKey(string(req.SortKey))
	if err != nil {
		return nil, err
	}

	filtered := Filter(candidates, req)
	ranked, err := Rank(filtered, key)
	if err != nil {
		return nil, fmt.Errorf("rank candidates: %w", err)
	}

	page, pageSize := e.pageParams(req.Page, req.PageSize)
	return &domain.SearchResult{
		Items:                 Paginate(ranked, page, pageSize),
		TotalCount:            len(ranked),
		CurrentPage:           page,
		ItemsPerPage:          pageSize,
		DistanceFilterSkipped: DistanceFilterSkipped(req),
	}, nil
}

func (e *Engine) pageParams(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = e.defaultPageSize
	}
	if pageSize > e.maxPageSize {
		pageSize = e.maxPageSize
	}
	return page, pageSize
}
