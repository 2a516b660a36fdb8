package cricbuzz

import (
	"context"

	"github.com/riskibarqy/cricket-slots/internal/usecase"
	"github.com/sourcegraph/conc/pool"
)

// hydrateSummaries fills a missing start time or venue from the match facts
// page. Lookup failures leave the summary as listed.
func (c *Client) hydrateSummaries(ctx context.Context, items []usecase.ExternalMatchSummary) {
	targets := make([]int, 0, len(items))
	for idx, item := range items {
		if item.StartTime == nil || item.Venue == "" {
			targets = append(targets, idx)
		}
	}
	if len(targets) == 0 {
		return
	}

	p := pool.New().WithMaxGoroutines(c.hydrationWorkers)
	for _, idx := range targets {
		p.Go(func() {
			key := items[idx].ExternalKey
			info, err := c.MatchInfo(ctx, key)
			if err != nil {
				c.logger.WarnContext(ctx, "hydrate match summary failed", "external_key", key, "error", err)
				return
			}
			if info == nil {
				return
			}
			items[idx] = applyMatchInfo(items[idx], *info)
		})
	}
	p.Wait()
}

func applyMatchInfo(item usecase.ExternalMatchSummary, info usecase.ExternalMatchInfo) usecase.ExternalMatchSummary {
	if item.StartTime == nil {
		item.StartTime = info.StartTime
	}
	item.Venue = firstNonEmpty(item.Venue, info.Venue)
	item.Title = firstNonEmpty(item.Title, info.Title)
	item.Series = firstNonEmpty(item.Series, info.Series)
	for i := range item.Teams {
		item.Teams[i].Name = firstNonEmpty(item.Teams[i].Name, info.Teams[i].Name)
	}
	return item
}
