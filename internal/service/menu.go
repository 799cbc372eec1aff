package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NureAlam68/magical-meals-server/internal/logging"
	"github.com/NureAlam68/magical-meals-server/internal/models"
	"github.com/NureAlam68/magical-meals-server/internal/mykafka"
	"github.com/NureAlam68/magical-meals-server/internal/repo"
	"github.com/NureAlam68/magical-meals-server/internal/transport"
	"github.com/NureAlam68/magical-meals-server/internal/util"
)

type MenuIndex interface {
	IndexItem(ctx context.Context, item models.MenuItem) error
	DeleteItem(ctx context.Context, id string) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.MenuItem, error)
}

var ErrIndexDisabled = errors.New("search index not configured")

type MenuService struct {
	Repo   *repo.GormRepo
	Index  MenuIndex
	Events EventPublisher
}

func validateMenuItem(req transport.MenuItemRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name required", ErrValidation)
	}
	if strings.TrimSpace(req.Category) == "" {
		return fmt.Errorf("%w: category required", ErrValidation)
	}
	if req.Price < 0 {
		return fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	return nil
}

func (s *MenuService) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	return s.Repo.ListMenu(ctx)
}

func (s *MenuService) GetMenuItem(ctx context.Context, rawID string) (*models.MenuItem, error) {
	id, err := parseID(rawID, "menu id")
	if err != nil {
		return nil, err
	}
	item, err := s.Repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, notFound(err, "menu item")
	}
	return item, nil
}

func (s *MenuService) CreateMenuItem(ctx context.Context, req transport.MenuItemRequest) (*models.MenuItem, error) {
	if err := validateMenuItem(req); err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Recipe:   req.Recipe,
		Image:    req.Image,
	}
	if err := s.Repo.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}

	s.reindex(ctx, *item)
	publish(ctx, s.Events, mykafka.TopicMenu, item.ID.String(), "menu_item_created", item)
	return item, nil
}

func (s *MenuService) UpdateMenuItem(ctx context.Context, rawID string, req transport.MenuItemRequest) (transport.UpdateResult, error) {
	id, err := parseID(rawID, "menu id")
	if err != nil {
		return transport.UpdateResult{}, err
	}
	if err := validateMenuItem(req); err != nil {
		return transport.UpdateResult{}, err
	}

	item := models.MenuItem{
		ID:       id,
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Recipe:   req.Recipe,
		Image:    req.Image,
	}
	n, err := s.Repo.UpdateMenuItem(ctx, id, item)
	if err != nil {
		return transport.UpdateResult{}, err
	}
	if n > 0 {
		s.reindex(ctx, item)
		publish(ctx, s.Events, mykafka.TopicMenu, id.String(), "menu_item_updated", item)
	}
	return transport.Updated(n, n), nil
}

func (s *MenuService) DeleteMenuItem(ctx context.Context, rawID string) (transport.DeleteResult, error) {
	id, err := parseID(rawID, "menu id")
	if err != nil {
		return transport.DeleteResult{}, err
	}

	n, err := s.Repo.DeleteMenuItem(ctx, id)
	if err != nil {
		return transport.DeleteResult{}, err
	}
	if n > 0 {
		if s.Index != nil {
			if err := s.Index.DeleteItem(ctx, id.String()); err != nil {
				logging.FromContext(ctx).Warn("menu_unindex_error", "id", id, "error", err)
			}
		}
		publish(ctx, s.Events, mykafka.TopicMenu, id.String(), "menu_item_deleted", map[string]string{"id": id.String()})
	}
	return transport.Deleted(n), nil
}

// SearchMenu queries the index and falls back to the store when the index is
// missing or failing.
func (s *MenuService) SearchMenu(ctx context.Context, query string, page, size int) (transport.SearchResponse[models.MenuItem], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return transport.SearchResponse[models.MenuItem]{}, fmt.Errorf("%w: q required", ErrValidation)
	}
	offset, limit, page := util.Calculate(page, size)
	resp := transport.SearchResponse[models.MenuItem]{Page: page, Size: limit}

	if s.Index != nil {
		total, items, err := s.Index.Search(ctx, query, offset, limit)
		if err == nil {
			resp.Total, resp.Items = total, items
			return resp, nil
		}
		logging.FromContext(ctx).Warn("menu_search_index_error", "error", err)
	}

	total, items, err := s.Repo.SearchMenu(ctx, query, offset, limit)
	if err != nil {
		return resp, err
	}
	resp.Total, resp.Items = total, items
	return resp, nil
}

// Reindex writes every stored menu item to the search index. Items saved
// while the index was unreachable are only searchable there after this runs.
func (s *MenuService) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, ErrIndexDisabled
	}
	items, err := s.Repo.ListMenu(ctx)
	if err != nil {
		return 0, err
	}
	for i, item := range items {
		if err := s.Index.IndexItem(ctx, item); err != nil {
			return i, fmt.Errorf("index menu item %s: %w", item.ID, err)
		}
	}
	return len(items), nil
}

func (s *MenuService) reindex(ctx context.Context, item models.MenuItem) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexItem(ctx, item); err != nil {
		logging.FromContext(ctx).Warn("menu_index_error", "id", item.ID, "error", err)
	}
}

func (s *MenuService) ListReviews(ctx context.Context) ([]models.Review, error) {
	return s.Repo.ListReviews(ctx)
}
