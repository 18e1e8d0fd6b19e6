// Package config gathers the tunables the rest of the module reads at
// startup: the ADS API token, cache locations, synonym files, and the
// editorial constants the route ranker and pathfinder use.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/cpuid"
	"github.com/pbnjay/memory"
)

// ScoringConstants are the editorial numbers in the per-link scoring
// formula, kept configurable rather than hardcoded.
type ScoringConstants struct {
	OrcidDecayPerExtraSource float64 // 0.08
	AffiliationWeight        float64 // 0.3
	DetailWeight             float64 // 0.1
	DetailDivisor            float64 // 20
}

// DefaultScoringConstants returns the baseline editorial constants.
func DefaultScoringConstants() ScoringConstants {
	return ScoringConstants{
		OrcidDecayPerExtraSource: 0.08,
		AffiliationWeight:        0.3,
		DetailWeight:             0.1,
		DetailDivisor:            20,
	}
}

// Config is the process-wide configuration: performance-tuning knobs and
// secrets gathered into one value so tests can construct independent
// instances.
type Config struct {
	ADSToken   string
	ADSBaseURL string

	CacheRootDir string
	SynonymFiles []string

	// MaxBFSIterations bounds the pathfinder's bidirectional search before
	// it fails with too_far.
	MaxBFSIterations int

	Scoring ScoringConstants

	CacheMaxAge     time.Duration
	CacheMaxAgeAuto time.Duration
	ResultCacheTTL  time.Duration

	// WorkerPoolSize sizes the repository's internal fan-out pool. Defaults
	// to the logical core count.
	WorkerPoolSize int

	// CacheByteBudget caps how much memory the in-process cache facade may
	// retain before proactively evicting, sized as a fraction of total
	// system memory (pbnjay/memory).
	CacheByteBudget uint64
}

const (
	defaultADSBaseURL = "https://api.adsabs.harvard.edu/v1/search/query"
	cacheMaxAge       = 30 * 24 * time.Hour
	cacheMaxAgeAuto   = cacheMaxAge - (26*time.Hour + 24*time.Minute) // MAX_AGE - 1.1 day
	resultCacheTTL    = time.Hour
)

// FromEnv builds a Config from environment variables, applying defaults for
// anything unset. Recognized variables: APPA_ADS_TOKEN (required),
// APPA_ADS_BASE_URL, APPA_CACHE_DIR, APPA_SYNONYM_FILES (colon-separated),
// APPA_MAX_BFS_ITERATIONS, APPA_WORKER_POOL_SIZE, APPA_CACHE_BUDGET_FRACTION.
func FromEnv() (*Config, error) {
	token := os.Getenv("APPA_ADS_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("config: APPA_ADS_TOKEN is required")
	}

	cfg := &Config{
		ADSToken:          token,
		ADSBaseURL:        envOr("APPA_ADS_BASE_URL", defaultADSBaseURL),
		CacheRootDir:      envOr("APPA_CACHE_DIR", "./appa-cache"),
		MaxBFSIterations:  9,
		Scoring:           DefaultScoringConstants(),
		CacheMaxAge:       cacheMaxAge,
		CacheMaxAgeAuto:   cacheMaxAgeAuto,
		ResultCacheTTL:    resultCacheTTL,
		WorkerPoolSize:    cpuid.CPU.LogicalCores,
	}
	if cfg.WorkerPoolSize < 1 {
		cfg.WorkerPoolSize = 1
	}

	if v := os.Getenv("APPA_SYNONYM_FILES"); v != "" {
		cfg.SynonymFiles = strings.Split(v, ":")
	}

	if v := os.Getenv("APPA_MAX_BFS_ITERATIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: APPA_MAX_BFS_ITERATIONS: %w", err)
		}
		cfg.MaxBFSIterations = n
	}

	if v := os.Getenv("APPA_WORKER_POOL_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: APPA_WORKER_POOL_SIZE: %w", err)
		}
		cfg.WorkerPoolSize = n
	}

	budgetFraction := 0.1
	if v := os.Getenv("APPA_CACHE_BUDGET_FRACTION"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("config: APPA_CACHE_BUDGET_FRACTION: %w", err)
		}
		budgetFraction = f
	}
	cfg.CacheByteBudget = uint64(float64(memory.TotalMemory()) * budgetFraction)

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
