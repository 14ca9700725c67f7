package analysis

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/anicholas99/claimgraph/internal/cache"
	"github.com/anicholas99/claimgraph/internal/model"
)

// CachedAnalyzer memoizes reports by claim-set fingerprint. Analysis is a
// pure function of its input, so a cached report for an identical snapshot
// is exactly the report a fresh run would produce, apart from AnalyzedAt.
type CachedAnalyzer struct {
	inner *Analyzer
	store cache.Cache
	ttl   time.Duration
}

// NewCachedAnalyzer wraps an analyzer with a report cache.
func NewCachedAnalyzer(inner *Analyzer, store cache.Cache, ttl time.Duration) *CachedAnalyzer {
	return &CachedAnalyzer{inner: inner, store: store, ttl: ttl}
}

// Analyze returns the cached report for an identical request when one
// exists, running the full analysis otherwise. Cache problems fall back to
// computing; they never fail the analysis.
func (c *CachedAnalyzer) Analyze(req Request) (*model.AnalysisReport, error) {
	key := c.key(req)
	if data, found := c.store.Get(key); found {
		var report model.AnalysisReport
		if err := json.Unmarshal(data, &report); err == nil {
			return &report, nil
		}
		_ = c.store.Delete(key)
	}

	report, err := c.inner.Analyze(req)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(report); err == nil {
		_ = c.store.Set(key, data, c.ttl)
	}
	return report, nil
}

// key fingerprints the whole request: subject, every claim's identity,
// number and text, and the optional specification text.
func (c *CachedAnalyzer) key(req Request) string {
	parts := make([]string, 0, len(req.Claims)+2)
	parts = append(parts, req.Subject)
	for _, cl := range req.Claims {
		parts = append(parts, fmt.Sprintf("%s|%d|%s", cl.ID, cl.Number, cl.Text))
	}
	parts = append(parts, req.SpecText)
	return cache.Key("report", parts...)
}
