package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/Skotchmaster/blog_platform/internal/models"
)

const IndexName = "posts"

// Index mirrors published posts into Elasticsearch. A nil Index is valid and
// turns every operation into a no-op, which is how the server runs when
// ES_URL is not configured. Ranking is whatever the match query produces;
// nothing is re-ranked here.
type Index struct {
	es *elasticsearch.Client
}

func New(url, user, password string) (*Index, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch info: %s", res.Status())
	}

	return &Index{es: client}, nil
}

type postDoc struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// IndexPost upserts a published post and removes an unpublished one, so the
// index only ever answers with readable posts.
func (ix *Index) IndexPost(ctx context.Context, post *models.Post) error {
	if ix == nil {
		return nil
	}
	if !post.Published {
		return ix.DeletePost(ctx, post.ID)
	}

	doc := postDoc{
		ID:      post.ID.String(),
		Title:   post.Title,
		Content: post.Content,
		Tags:    post.Tags,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("search: encode doc: %w", err)
	}

	res, err := ix.es.Index(
		IndexName,
		&buf,
		ix.es.Index.WithDocumentID(doc.ID),
		ix.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: index post: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index post: %s", res.Status())
	}
	return nil
}

func (ix *Index) DeletePost(ctx context.Context, id uuid.UUID) error {
	if ix == nil {
		return nil
	}
	res, err := ix.es.Delete(
		IndexName,
		id.String(),
		ix.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: delete post: %w", err)
	}
	defer res.Body.Close()
	// 404 just means the post was never published.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("search: delete post: %s", res.Status())
	}
	return nil
}

func (ix *Index) Search(ctx context.Context, query string, from, size int) ([]uuid.UUID, error) {
	if ix == nil {
		return nil, nil
	}

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "content", "tags"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := ix.es.Search(
		ix.es.Search.WithContext(ctx),
		ix.es.Search.WithIndex(IndexName),
		ix.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: query: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: query: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source postDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		id, err := uuid.Parse(strings.TrimSpace(hit.Source.ID))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
