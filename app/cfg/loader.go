package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Directories
	InputDir  string `long:"input-dir" env:"INPUT_DIR" default:"./data_raw" description:"Directory containing raw catalog exports"`
	OutputDir string `long:"output-dir" env:"OUTPUT_DIR" default:"./data_clean" description:"Directory for run summaries"`
	LogsDir   string `long:"logs-dir" env:"LOGS_DIR" default:"./logs" description:"Directory for audit and application logs"`

	// Analytics store
	AnalyticsDriver string `long:"analytics-driver" env:"ANALYTICS_DRIVER" default:"duckdb" choice:"duckdb" choice:"sqlite" description:"Analytics store driver"`
	AnalyticsPath   string `long:"analytics-path" env:"ANALYTICS_PATH" default:"./data/catalog.duckdb" description:"Analytics database file"`

	// Document store
	MongoURI        string `long:"mongo-uri" env:"MONGO_URI" default:"mongodb://localhost:27017" description:"MongoDB connection string"`
	MongoDB         string `long:"mongo-db" env:"MONGO_DB" default:"catalog" description:"MongoDB database name"`
	MongoCollection string `long:"mongo-collection" env:"MONGO_COLLECTION" default:"books" description:"MongoDB collection name"`
	SkipMongo       bool   `long:"skip-mongo" env:"SKIP_MONGO" description:"Do not load into the document store"`
	DocBatchSize    int    `long:"doc-batch-size" env:"DOC_BATCH_SIZE" default:"100" description:"Documents per bulk write"`

	// Run selection
	Force          bool          `long:"force" env:"FORCE" description:"Reprocess files that were already loaded"`
	Files          []string      `long:"file" description:"Process only this file (repeatable), bypasses discovery"`
	CategoriesFile string        `long:"categories-file" env:"CATEGORIES_FILE" default:"./categories.yml" description:"YAML file overriding category display names"`
	StatePath      string        `long:"state-path" env:"STATE_PATH" default:"./data/state.db" description:"SQLite file tracking processed files and runs"`
	MaxDuration    time.Duration `long:"max-duration" env:"MAX_DURATION" default:"0" description:"Abort the run after this long (0 disables)"`

	// Media verification
	RedisAddr     string        `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address for caching probe results (optional)"`
	MediaCacheTTL time.Duration `long:"media-cache-ttl" env:"MEDIA_CACHE_TTL" default:"24h" description:"How long probe results stay cached"`
	Concurrency   int           `long:"concurrency" env:"CONCURRENCY" default:"10" description:"Cover image probes per batch"`
	ProbeTimeout  time.Duration `long:"probe-timeout" env:"PROBE_TIMEOUT" default:"5s" description:"Timeout for a single cover image probe"`
	BatchPause    time.Duration `long:"batch-pause" env:"BATCH_PAUSE" default:"100ms" description:"Pause between probe batches"`
	UserAgent     string        `long:"user-agent" env:"USER_AGENT" default:"catalog-etl/1.0 (+media-verifier)" description:"User agent string for HTTP requests"`

	// Observability
	MetricsAddr string `long:"metrics-addr" env:"METRICS_ADDR" description:"Serve /metrics and /health on this address during the run (optional)"`
	Debug       bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
	LogJSON     bool   `long:"log-json" env:"LOG_JSON" description:"Emit logs as JSON"`
}

// Load parses command-line flags and environment variables. It returns
// nil, nil when help was requested.
func Load() (*Cfg, error) {
	return parse(os.Args[1:])
}

func parse(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		InputDir:        raw.InputDir,
		OutputDir:       raw.OutputDir,
		LogsDir:         raw.LogsDir,
		AnalyticsDriver: raw.AnalyticsDriver,
		AnalyticsPath:   raw.AnalyticsPath,
		MongoURI:        raw.MongoURI,
		MongoDB:         raw.MongoDB,
		MongoCollection: raw.MongoCollection,
		SkipMongo:       raw.SkipMongo,
		DocBatchSize:    raw.DocBatchSize,
		Force:           raw.Force,
		Files:           raw.Files,
		CategoriesFile:  raw.CategoriesFile,
		StatePath:       raw.StatePath,
		MaxDuration:     raw.MaxDuration,
		RedisAddr:       raw.RedisAddr,
		MediaCacheTTL:   raw.MediaCacheTTL,
		Concurrency:     raw.Concurrency,
		ProbeTimeout:    raw.ProbeTimeout,
		BatchPause:      raw.BatchPause,
		UserAgent:       raw.UserAgent,
		MetricsAddr:     raw.MetricsAddr,
		Debug:           raw.Debug,
		LogJSON:         raw.LogJSON,
		Version:         GetVersion(),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Cfg) validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.DocBatchSize < 1 {
		return fmt.Errorf("doc-batch-size must be at least 1, got %d", c.DocBatchSize)
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe-timeout must be positive, got %s", c.ProbeTimeout)
	}
	if c.BatchPause < 0 || c.MaxDuration < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	if !c.SkipMongo && c.MongoURI == "" {
		return fmt.Errorf("mongo-uri is required unless --skip-mongo is set")
	}
	return nil
}
