package cfg

import "time"

type Cfg struct {
	// Directories
	InputDir  string
	OutputDir string
	LogsDir   string

	// Analytics store
	AnalyticsDriver string
	AnalyticsPath   string

	// Document store
	MongoURI        string
	MongoDB         string
	MongoCollection string
	SkipMongo       bool
	DocBatchSize    int

	// Run selection
	Force          bool
	Files          []string
	CategoriesFile string
	StatePath      string
	MaxDuration    time.Duration

	// Media verification
	RedisAddr     string
	MediaCacheTTL time.Duration
	Concurrency   int
	ProbeTimeout  time.Duration
	BatchPause    time.Duration
	UserAgent     string

	// Observability
	MetricsAddr string
	Debug       bool
	LogJSON     bool

	Version string
}
