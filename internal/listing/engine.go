// File: internal/listing/engine.go

// Package listing enumerates and searches objects under a prefix with cursor pagination.
package listing

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"s3sh/internal/errs"
	"s3sh/pkg/storage"
)

// Engine walks provider listings page by page. Page N is fully processed before page N+1 is requested
type Engine struct {
	pageSize int
	logger   *slog.Logger
}

func NewEngine(pageSize int, logger *slog.Logger) *Engine {
	if pageSize <= 0 {
		pageSize = storage.DefaultPageSize
	}
	return &Engine{
		pageSize: pageSize,
		logger:   logger.With("component", "ListingEngine"),
	}
}

// SearchResult carries the counters accumulated across every page of a search
type SearchResult struct {
	Matches int
	Total   int
}

// ListDirectChildren returns the virtual subdirectories one level below prefix.
// Leaf objects are not included.
func (e *Engine) ListDirectChildren(ctx context.Context, client storage.Client, bucket, prefix string) ([]string, error) {
	e.logger.Debug("Listing direct children", "bucket", bucket, "prefix", prefix)

	page, err := client.ListObjects(ctx, bucket, storage.ListOptions{
		Prefix:    prefix,
		Delimiter: storage.Delimiter,
		MaxKeys:   e.pageSizeFor(client),
	})
	if err != nil {
		return nil, errs.IO("list "+bucket, err)
	}
	return page.CommonPrefixes, nil
}

// ListObjects emits every object under prefix as soon as its page arrives and
// returns the number of objects seen
func (e *Engine) ListObjects(ctx context.Context, client storage.Client, bucket, prefix string, emit func(storage.ObjectEntry) error) (int, error) {
	e.logger.Debug("Listing objects", "bucket", bucket, "prefix", prefix)

	total := 0
	err := e.walk(ctx, client, bucket, prefix, func(entry storage.ObjectEntry) error {
		total++
		return emit(entry)
	})
	return total, err
}

// Search compiles pattern and counts every match against every key under prefix.
// A key matching several times contributes several matches. emit is called once
// per matching key with its match count.
func (e *Engine) Search(ctx context.Context, client storage.Client, bucket, prefix, pattern string, emit func(storage.ObjectEntry, int) error) (SearchResult, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return SearchResult{}, fmt.Errorf("%w: %s: %w", errs.ErrInvalidPattern, pattern, err)
	}

	e.logger.Debug("Searching objects", "bucket", bucket, "prefix", prefix, "pattern", pattern)

	var res SearchResult
	err = e.walk(ctx, client, bucket, prefix, func(entry storage.ObjectEntry) error {
		res.Total++
		n := len(re.FindAllStringIndex(entry.Key, -1))
		if n == 0 {
			return nil
		}
		res.Matches += n
		if emit == nil {
			return nil
		}
		return emit(entry, n)
	})
	return res, err
}

// Resolve requires that a listing under key yields exactly one object
func (e *Engine) Resolve(ctx context.Context, client storage.Client, bucket, key string) (storage.ObjectEntry, error) {
	page, err := client.ListObjects(ctx, bucket, storage.ListOptions{Prefix: key, MaxKeys: e.pageSizeFor(client)})
	if err != nil {
		return storage.ObjectEntry{}, errs.IO("list "+bucket, err)
	}

	switch n := len(page.Entries); {
	case n == 0:
		return storage.ObjectEntry{}, fmt.Errorf("%w: remote path %s returns zero files", errs.ErrNotFound, key)
	case n > 1 || page.HasMore:
		return storage.ObjectEntry{}, fmt.Errorf("%w: remote path %s is not unique; found %d files", errs.ErrAmbiguousPath, key, n)
	default:
		return page.Entries[0], nil
	}
}

func (e *Engine) pageSizeFor(client storage.Client) int {
	if t, ok := client.(storage.PageSizeTerminated); ok && t.FullPageSize() > 0 {
		return t.FullPageSize()
	}
	return e.pageSize
}

// Fetches pages until the provider reports no more. Providers that cannot report
// truncation end the walk on the first short page.
func (e *Engine) walk(ctx context.Context, client storage.Client, bucket, prefix string, visit func(storage.ObjectEntry) error) error {
	pageSize := e.pageSizeFor(client)
	_, heuristic := client.(storage.PageSizeTerminated)

	cursor := ""
	for pages := 1; ; pages++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := client.ListObjects(ctx, bucket, storage.ListOptions{
			Prefix:  prefix,
			Cursor:  cursor,
			MaxKeys: pageSize,
		})
		if err != nil {
			e.logger.Error("Failed to fetch listing page", "bucket", bucket, "prefix", prefix, "page", pages, "error", err)
			return errs.IO("list "+bucket, err)
		}

		for _, entry := range page.Entries {
			if err := visit(entry); err != nil {
				return err
			}
		}

		more := page.HasMore
		if heuristic {
			more = len(page.Entries) >= pageSize
		}
		if !more || page.NextCursor == "" {
			e.logger.Debug("Listing exhausted", "bucket", bucket, "pages", pages)
			return nil
		}
		cursor = page.NextCursor
	}
}
