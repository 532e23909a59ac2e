package apiclient

import (
	"context"
	"fmt"

	"linkadmin/internal/models"

	"golang.org/x/sync/errgroup"
)

// BulkOutcome is the settled result of one insert: exactly one of Link and
// Err is set.
type BulkOutcome struct {
	URL  string
	Link *models.Link
	Err  error
}

// BulkResult holds one outcome per input URL, in input order.
type BulkResult struct {
	Outcomes []BulkOutcome
}

// Links returns the links that were created.
func (r BulkResult) Links() []models.Link {
	links := make([]models.Link, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.Link != nil {
			links = append(links, *o.Link)
		}
	}
	return links
}

// Failures returns the failed outcomes.
func (r BulkResult) Failures() []BulkOutcome {
	var failed []BulkOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Diagnostics renders each failure as "url: reason".
func (r BulkResult) Diagnostics() []string {
	failed := r.Failures()
	out := make([]string, 0, len(failed))
	for _, o := range failed {
		out = append(out, fmt.Sprintf("%s: %s", o.URL, o.Err.Error()))
	}
	return out
}

// AllFailed reports whether there was at least one input and none succeeded.
// An empty input is not a failure.
func (r BulkResult) AllFailed() bool {
	return len(r.Outcomes) > 0 && len(r.Failures()) == len(r.Outcomes)
}

// AddBulkLinks issues one independent insert per URL concurrently and waits
// for all of them. A failing insert never cancels its siblings, and the call
// itself never fails; inspect the result to decide what an all-failed batch
// means.
func (c *Client) AddBulkLinks(ctx context.Context, urls []string) BulkResult {
	result := BulkResult{Outcomes: make([]BulkOutcome, len(urls))}
	if len(urls) == 0 {
		return result
	}

	var g errgroup.Group
	if c.bulkConcurrency > 0 {
		g.SetLimit(c.bulkConcurrency)
	}
	for i, u := range urls {
		g.Go(func() error {
			link, err := c.AddLink(ctx, u)
			if err != nil {
				result.Outcomes[i] = BulkOutcome{URL: u, Err: err}
				return nil
			}
			result.Outcomes[i] = BulkOutcome{URL: u, Link: &link}
			return nil
		})
	}
	_ = g.Wait()

	if diag := result.Diagnostics(); len(diag) > 0 {
		c.logger.Warn("Some links failed to add", "failed", len(diag), "total", len(urls), "errors", diag)
	}
	return result
}
