package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CatalogConfig struct {
	BaseURL   string        `yaml:"baseUrl" validate:"required|fullUrl"`
	PageSize  int           `yaml:"pageSize"`
	Timeout   time.Duration `yaml:"timeout" validate:"required|min:1"`
	MaxRetry  int           `yaml:"maxRetry"`
	RateLimit float64       `yaml:"rateLimit"`
	RateBurst int           `yaml:"rateBurst"`
}

type SnapshotConfig struct {
	TTL             time.Duration `yaml:"ttl" validate:"required|min:1"`
	RefreshInterval time.Duration `yaml:"refreshInterval" validate:"required|min:1"`
	MaxRecords      int           `yaml:"maxRecords"`
}

type AnalysisConfig struct {
	RetiredStatus int `yaml:"retiredStatus"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	Catalog   CatalogConfig  `yaml:"catalog"`
	Snapshot  SnapshotConfig `yaml:"snapshot"`
	Analysis  AnalysisConfig `yaml:"analysis"`
	WebServer Server         `yaml:"webServer"`
	Logger    LoggerConfig   `yaml:"logger"`
	Cache     CacheConfig    `yaml:"cache"`
	Metrics   MetricsConfig  `yaml:"metrics"`
}
