package openlibrary

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// searchFields keeps the response payload down to what the plugin renders.
const searchFields = "key,title,author_name,first_publish_year,cover_i,isbn"

// Search performs a free-text search and returns at most limit documents,
// in the relevance order the API returned them. Documents without a work
// key are dropped. If limit <= 0, DefaultLimit is used.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Doc, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fields", searchFields)

	endpoint := fmt.Sprintf("%s/search.json?%s", c.baseURL, params.Encode())

	var response searchResponse
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	docs := make([]Doc, 0, limit)
	for _, item := range response.Docs {
		if len(docs) >= limit {
			break
		}
		// A document without a key has no destination page to open.
		if item.Key == "" {
			continue
		}

		doc := Doc{
			Key:              item.Key,
			Title:            item.Title,
			AuthorNames:      item.AuthorName,
			FirstPublishYear: item.FirstPublishYear,
			CoverID:          item.CoverI,
		}
		if doc.Title == "" {
			doc.Title = "Unknown Title"
		}
		if len(item.ISBN) > 0 {
			doc.ISBN = item.ISBN[0]
		}

		docs = append(docs, doc)
	}

	return docs, nil
}
