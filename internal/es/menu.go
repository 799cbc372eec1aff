package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/NureAlam68/magical-meals-server/internal/models"
)

// MenuIndex mirrors menu items into a full-text index.
type MenuIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewMenuIndex(client *elasticsearch.Client, index string) *MenuIndex {
	return &MenuIndex{ES: client, Index: index}
}

// _id is reserved inside ES sources, so documents carry the id as "id".
type menuDoc struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Recipe   string  `json:"recipe"`
	Image    string  `json:"image"`
}

func toDoc(m models.MenuItem) menuDoc {
	return menuDoc{
		ID:       m.ID.String(),
		Name:     m.Name,
		Category: m.Category,
		Price:    m.Price,
		Recipe:   m.Recipe,
		Image:    m.Image,
	}
}

func (d menuDoc) item() models.MenuItem {
	id, _ := uuid.Parse(d.ID)
	return models.MenuItem{
		ID:       id,
		Name:     d.Name,
		Category: d.Category,
		Price:    d.Price,
		Recipe:   d.Recipe,
		Image:    d.Image,
	}
}

func (m *MenuIndex) IndexItem(ctx context.Context, item models.MenuItem) error {
	body, err := json.Marshal(toDoc(item))
	if err != nil {
		return fmt.Errorf("es: marshal menu item: %w", err)
	}

	res, err := m.ES.Index(
		m.Index,
		bytes.NewReader(body),
		m.ES.Index.WithContext(ctx),
		m.ES.Index.WithDocumentID(item.ID.String()),
	)
	if err != nil {
		return fmt.Errorf("es: index menu item: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index menu item", res.StatusCode, res.Body)
	}
	return nil
}

// DeleteItem removes id from the index. A missing document is not an error.
func (m *MenuIndex) DeleteItem(ctx context.Context, id string) error {
	res, err := m.ES.Delete(m.Index, id, m.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es: delete menu item: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete menu item", res.StatusCode, res.Body)
	}
	return nil
}

func (m *MenuIndex) Search(ctx context.Context, query string, from, size int) (int64, []models.MenuItem, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "category", "recipe"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("es: encode query: %w", err)
	}

	res, err := m.ES.Search(
		m.ES.Search.WithContext(ctx),
		m.ES.Search.WithIndex(m.Index),
		m.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("search", res.StatusCode, res.Body)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source menuDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("es: decode search: %w", err)
	}

	items := make([]models.MenuItem, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source.item()
	}
	return r.Hits.Total.Value, items, nil
}

func responseError(op string, status int, body io.Reader) error {
	b, _ := io.ReadAll(io.LimitReader(body, 4096))
	return fmt.Errorf("es: %s: status %d: %s", op, status, b)
}
