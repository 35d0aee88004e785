// Package plugin translates launcher queries into Open Library searches
// and search results back into renderable launcher entries.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkg/browser"

	"github.com/openshelf/openshelf/internal/launcher"
	"github.com/openshelf/openshelf/internal/openlibrary"
)

// Library is the capability the adapter needs from the book catalog:
// search for documents and build the URLs derived from them.
// *openlibrary.Client satisfies it.
type Library interface {
	Search(ctx context.Context, query string, limit int) ([]openlibrary.Doc, error)
	CoverCandidates(doc openlibrary.Doc) []string
	WorkURL(workKey string) string
}

// CoverFetcher resolves cover candidate URLs into a local icon path.
// *covercache.Cache satisfies it.
type CoverFetcher interface {
	Fetch(ctx context.Context, name string, urls []string) (string, error)
}

// Adapter is the request/response translation between the launcher
// protocol and the Open Library API. It holds no mutable state between
// invocations.
type Adapter struct {
	library  Library
	covers   CoverFetcher
	limit    int
	appIcon  string
	bookIcon string
	openURL  func(url string) error
}

// New creates an adapter around the given library.
func New(library Library, opts ...Option) *Adapter {
	adapter := &Adapter{
		library:  library,
		limit:    openlibrary.DefaultLimit,
		appIcon:  "app.png",
		bookIcon: "book.png",
		openURL:  browser.OpenURL,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// Option is a functional option for configuring the Adapter.
type Option func(*Adapter)

// WithCovers sets the cover cache used for result icons. Without one,
// every entry falls back to the bundled book icon.
func WithCovers(covers CoverFetcher) Option {
	return func(a *Adapter) {
		a.covers = covers
	}
}

// WithLimit caps the number of result entries.
func WithLimit(limit int) Option {
	return func(a *Adapter) {
		if limit > 0 {
			a.limit = limit
		}
	}
}

// WithIcons sets the bundled icon paths: the app icon for
// informational entries and the book icon for cover fallbacks.
func WithIcons(appIcon, bookIcon string) Option {
	return func(a *Adapter) {
		if appIcon != "" {
			a.appIcon = appIcon
		}
		if bookIcon != "" {
			a.bookIcon = bookIcon
		}
	}
}

// WithOpener replaces the browser opener, for tests.
func WithOpener(open func(url string) error) Option {
	return func(a *Adapter) {
		if open != nil {
			a.openURL = open
		}
	}
}

// Handle dispatches a single launcher request. It never fails: faults
// surface as renderable entries so the host always has a list to show.
func (a *Adapter) Handle(ctx context.Context, req launcher.Request) launcher.Response {
	switch req.Method {
	case launcher.MethodQuery:
		return launcher.Response{Result: a.Query(ctx, req.Param())}
	case launcher.MethodOpen:
		if err := a.Open(req.Param()); err != nil {
			slog.Error("Failed to open book page", "error", err)
			return launcher.Response{Result: []launcher.Result{{
				Title:    "Failed to open book page",
				SubTitle: err.Error(),
				IcoPath:  a.appIcon,
			}}}
		}
		return launcher.Response{Result: []launcher.Result{}}
	default:
		slog.Warn("Ignoring unknown method", "method", req.Method)
		return launcher.Response{Result: []launcher.Result{}}
	}
}

// Query searches the library and maps the matches to launcher entries.
// A blank query returns an empty list without touching the network;
// zero matches and search failures each produce a single informational
// entry with no activation action.
func (a *Adapter) Query(ctx context.Context, term string) []launcher.Result {
	term = strings.TrimSpace(term)
	if term == "" {
		return []launcher.Result{}
	}

	slog.Debug("Searching Open Library", "query", term)

	docs, err := a.library.Search(ctx, term, a.limit)
	if err != nil {
		slog.Error("Search failed", "query", term, "error", err)
		return []launcher.Result{{
			Title:    "Open Library search failed",
			SubTitle: searchErrorHint(err),
			IcoPath:  a.appIcon,
		}}
	}

	if len(docs) == 0 {
		return []launcher.Result{{
			Title:    fmt.Sprintf("No books found for '%s'", term),
			SubTitle: "Try a different search term",
			IcoPath:  a.appIcon,
		}}
	}

	results := make([]launcher.Result, 0, len(docs))
	for _, doc := range docs {
		results = append(results, launcher.Result{
			Title:    doc.Title,
			SubTitle: doc.Subtitle(),
			IcoPath:  a.icon(ctx, doc),
			JSONRPCAction: &launcher.RPCAction{
				Method:     launcher.MethodOpen,
				Parameters: []string{doc.Key},
			},
		})
	}

	return results
}

// Open opens the work's public page in the default browser.
func (a *Adapter) Open(workKey string) error {
	if workKey == "" {
		return errors.New("no work key provided")
	}

	url := a.library.WorkURL(workKey)
	slog.Info("Opening book page", "url", url)

	if err := a.openURL(url); err != nil {
		return fmt.Errorf("opening %s: %w", url, err)
	}
	return nil
}

func (a *Adapter) icon(ctx context.Context, doc openlibrary.Doc) string {
	if a.covers == nil || !doc.HasCover() {
		return a.bookIcon
	}

	path, err := a.covers.Fetch(ctx, coverName(doc), a.library.CoverCandidates(doc))
	if err != nil {
		slog.Debug("No cover available", "title", doc.Title, "error", err)
		return a.bookIcon
	}
	return path
}

// coverName builds a stable cache key for a document's cover.
func coverName(doc openlibrary.Doc) string {
	if doc.CoverID > 0 {
		return strconv.Itoa(doc.CoverID)
	}
	return "isbn_" + doc.ISBN
}

func searchErrorHint(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "Open Library did not respond in time"
	}
	return "Check your network connection and try again"
}
