package media

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lysyi3m/catalog-etl/app/catalog"
	"github.com/lysyi3m/catalog-etl/app/metrics"
)

const (
	DefaultBatchSize  = 10
	DefaultBatchPause = 100 * time.Millisecond
)

// Verifier probes distinct cover URLs in fixed-size concurrent batches and
// records the outcome on each record's MediaVerified flag.
type Verifier struct {
	prober    Prober
	cache     ResultCache
	batchSize int
	pause     time.Duration
}

// NewVerifier builds a verifier. cache may be nil.
func NewVerifier(prober Prober, cache ResultCache, batchSize int, pause time.Duration) *Verifier {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if pause < 0 {
		pause = 0
	}
	return &Verifier{
		prober:    prober,
		cache:     cache,
		batchSize: batchSize,
		pause:     pause,
	}
}

func (v *Verifier) Run(ctx context.Context, records []catalog.Record) []catalog.Record {
	urls := distinctCoverURLs(records)
	results := make(map[string]bool, len(urls))

	pending := urls
	if v.cache != nil {
		pending = v.fromCache(ctx, urls, results)
	}

	probed := v.probeAll(ctx, pending)
	for i, url := range pending {
		results[url] = probed[i]
	}

	// Only verified URLs are cached; failures are probed again next run.
	if v.cache != nil && ctx.Err() == nil {
		for i, url := range pending {
			if !probed[i] {
				continue
			}
			if err := v.cache.Set(ctx, url, true); err != nil {
				slog.Warn("Failed to cache probe result", "url", url, "error", err)
			}
		}
	}

	verified := 0
	for i := range records {
		records[i].MediaVerified = records[i].CoverURL != "" && results[records[i].CoverURL]
		if records[i].MediaVerified {
			verified++
		}
	}

	slog.Debug("Media verification completed",
		"records", len(records),
		"distinct_urls", len(urls),
		"probed", len(pending),
		"verified_records", verified)

	return records
}

func (v *Verifier) fromCache(ctx context.Context, urls []string, results map[string]bool) []string {
	var pending []string
	for _, url := range urls {
		verified, found, err := v.cache.Get(ctx, url)
		if err != nil {
			slog.Warn("Failed to read probe cache", "url", url, "error", err)
		}
		if err != nil || !found {
			pending = append(pending, url)
			continue
		}
		results[url] = verified
		metrics.MediaProbes.WithLabelValues(resultLabel(verified), "cache").Inc()
	}
	return pending
}

// probeAll runs probes batch by batch. Each batch is awaited in full before
// the pause that precedes the next one.
func (v *Verifier) probeAll(ctx context.Context, urls []string) []bool {
	results := make([]bool, len(urls))

	for start := 0; start < len(urls); start += v.batchSize {
		if start > 0 && !v.wait(ctx) {
			break
		}
		if ctx.Err() != nil {
			break
		}

		end := min(start+v.batchSize, len(urls))

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				err := v.prober.Probe(ctx, urls[i])
				if err != nil {
					slog.Debug("Cover probe failed", "url", urls[i], "error", err)
				}
				results[i] = err == nil
				metrics.MediaProbes.WithLabelValues(resultLabel(results[i]), "probe").Inc()
				return nil
			})
		}
		_ = g.Wait()
	}

	return results
}

func (v *Verifier) wait(ctx context.Context) bool {
	if v.pause == 0 {
		return true
	}
	timer := time.NewTimer(v.pause)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func distinctCoverURLs(records []catalog.Record) []string {
	seen := make(map[string]struct{}, len(records))
	var urls []string
	for _, r := range records {
		if r.CoverURL == "" {
			continue
		}
		if _, ok := seen[r.CoverURL]; ok {
			continue
		}
		seen[r.CoverURL] = struct{}{}
		urls = append(urls, r.CoverURL)
	}
	return urls
}

func resultLabel(verified bool) string {
	if verified {
		return "verified"
	}
	return "failed"
}
