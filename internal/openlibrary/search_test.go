package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
		WithRetryAttempts(1),
	)
}

func TestSearchMapsDocuments(t *testing.T) {
	var gotQuery, gotLimit, gotFields string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search.json", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("limit")
		gotFields = r.URL.Query().Get("fields")
		_, _ = w.Write([]byte(`{
			"numFound": 2,
			"docs": [
				{"key": "/works/OL45883W", "title": "Dune", "author_name": ["Frank Herbert", "Other"], "first_publish_year": 1965, "cover_i": 11481354, "isbn": ["9780441172719"]},
				{"key": "/works/OL893415W", "title": "Dune Messiah", "author_name": ["Frank Herbert"]}
			]
		}`))
	})

	docs, err := client.Search(context.Background(), "dune", 5)
	require.NoError(t, err)

	assert.Equal(t, "dune", gotQuery)
	assert.Equal(t, "5", gotLimit)
	assert.Equal(t, searchFields, gotFields)

	require.Len(t, docs, 2)
	assert.Equal(t, "/works/OL45883W", docs[0].Key)
	assert.Equal(t, "Dune", docs[0].Title)
	assert.Equal(t, []string{"Frank Herbert", "Other"}, docs[0].AuthorNames)
	assert.Equal(t, 1965, docs[0].FirstPublishYear)
	assert.Equal(t, 11481354, docs[0].CoverID)
	assert.Equal(t, "9780441172719", docs[0].ISBN)

	assert.Equal(t, "Dune Messiah", docs[1].Title)
	assert.Zero(t, docs[1].FirstPublishYear)
	assert.Empty(t, docs[1].ISBN)
}

func TestSearchDropsDocsWithoutKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"numFound": 3,
			"docs": [
				{"title": "No Key Book"},
				{"key": "/works/OL1W", "title": "First"},
				{"key": "", "title": "Empty Key"},
				{"key": "/works/OL2W", "title": "Second"}
			]
		}`))
	})

	docs, err := client.Search(context.Background(), "anything", 5)
	require.NoError(t, err)

	require.Len(t, docs, 2)
	assert.Equal(t, "/works/OL1W", docs[0].Key)
	assert.Equal(t, "/works/OL2W", docs[1].Key)
}

func TestSearchTruncatesToLimit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"numFound": 7,
			"docs": [
				{"key": "/works/OL1W", "title": "One"},
				{"key": "/works/OL2W", "title": "Two"},
				{"key": "/works/OL3W", "title": "Three"},
				{"key": "/works/OL4W", "title": "Four"},
				{"key": "/works/OL5W", "title": "Five"},
				{"key": "/works/OL6W", "title": "Six"},
				{"key": "/works/OL7W", "title": "Seven"}
			]
		}`))
	})

	docs, err := client.Search(context.Background(), "prolific", 5)
	require.NoError(t, err)

	require.Len(t, docs, 5)
	// Upstream order is preserved
	assert.Equal(t, "One", docs[0].Title)
	assert.Equal(t, "Five", docs[4].Title)
}

func TestSearchDefaultsMissingTitle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"numFound": 1, "docs": [{"key": "/works/OL1W"}]}`))
	})

	docs, err := client.Search(context.Background(), "mystery", 5)
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "Unknown Title", docs[0].Title)
}

func TestSearchZeroMatches(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"numFound": 0, "docs": []}`))
	})

	docs, err := client.Search(context.Background(), "qqqqzzzz", 5)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSearchUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusInternalServerError)
	})

	docs, err := client.Search(context.Background(), "dune", 5)
	require.Error(t, err)
	assert.Nil(t, docs)
	assert.Contains(t, err.Error(), "500")
}

func TestSearchMalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"docs": [`))
	})

	_, err := client.Search(context.Background(), "dune", 5)
	require.Error(t, err)
}

func TestSearchHonorsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)

	// Default retry attempts: an expired context must not be retried
	// or slept on, so the call still returns promptly.
	client := NewClient(
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Search(ctx, "slow", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSearchSendsUserAgent(t *testing.T) {
	var gotUA string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"numFound": 0, "docs": []}`))
	})

	_, err := client.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Equal(t, userAgent, gotUA)
}

func TestSearchDefaultLimit(t *testing.T) {
	var gotLimit string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		_, _ = w.Write([]byte(`{"numFound": 0, "docs": []}`))
	})

	_, err := client.Search(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.Equal(t, "5", gotLimit)
}
