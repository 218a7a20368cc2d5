package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// PageFetcher loads one page of a paginated listing.
type PageFetcher func(ctx context.Context, page int) (*Page, error)

// FetchPages loads pages 1..pages concurrently and returns their results in
// page order with duplicate ids removed (first occurrence wins), truncated
// to max. max <= 0 means no limit. If any page fails the whole call falls
// back to page 1 alone.
func FetchPages(ctx context.Context, fetch PageFetcher, pages, max int) ([]Title, error) {
	if pages < 1 {
		pages = 1
	}

	results := make([][]Title, pages)
	g, gctx := errgroup.WithContext(ctx)
	for i := range pages {
		g.Go(func() error {
			p, err := fetch(gctx, i+1)
			if err != nil {
				return err
			}
			if p != nil {
				results[i] = p.Results
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		first, ferr := fetch(ctx, 1)
		if ferr != nil {
			return nil, ferr
		}
		if first == nil {
			return []Title{}, nil
		}
		return dedupe([][]Title{first.Results}, max), nil
	}

	return dedupe(results, max), nil
}

func dedupe(pages [][]Title, max int) []Title {
	seen := make(map[int]struct{})
	out := make([]Title, 0)

	for _, page := range pages {
		for _, t := range page {
			if _, ok := seen[t.ID]; ok {
				continue
			}
			seen[t.ID] = struct{}{}
			out = append(out, t)
			if max > 0 && len(out) == max {
				return out
			}
		}
	}

	return out
}
