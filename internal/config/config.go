package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	IngestModeInsert = "insert"
	IngestModeUpsert = "upsert"

	defaultListen       = ":8000"
	defaultBasePath     = "/developers"
	defaultPageSize     = 14
	defaultMongoDB      = "hackorbit"
	defaultMongoURI     = "mongodb://localhost:27017"
	defaultIngestMode   = IngestModeUpsert
	defaultDumpFileName = "counters.yml"
)

// IngestConfig selects where batch records come from and how they are applied.
// DataFile points at a JSON array export; WorkDir at a folder of markdown
// descriptions. Whichever is set is used, DataFile winning when both are.
type IngestConfig struct {
	DataFile string `yaml:"data_file"`
	WorkDir  string `yaml:"work_dir"`
	Mode     string `yaml:"mode"`
}

type Config struct {
	Listen           string       `yaml:"listen"`
	BasePath         string       `yaml:"base_path"`
	LogLevel         string       `yaml:"log_level"`
	MongoURI         string       `yaml:"mongo_uri"`
	MongoDB          string       `yaml:"mongo_db"`
	RedisURL         string       `yaml:"redis_url"`
	PageSize         int          `yaml:"page_size"`
	DefaultLang      string       `yaml:"default_lang"`
	TranslationsFile string       `yaml:"translations_file"`
	DumpFileName     string       `yaml:"dump_filename"`
	IngestConfig     IngestConfig `yaml:"ingest"`
}

func (c *Config) SetDefaults() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.BasePath == "" {
		c.BasePath = defaultBasePath
	}
	if c.LogLevel == "" {
		c.LogLevel = LogLevelInfo
	}
	if c.MongoDB == "" {
		c.MongoDB = defaultMongoDB
	}
	if c.MongoURI == "" {
		c.MongoURI = defaultMongoURI
	}
	if c.PageSize < 1 {
		c.PageSize = defaultPageSize
	}
	if c.IngestConfig.Mode == "" {
		c.IngestConfig.Mode = defaultIngestMode
	}
	if c.DumpFileName == "" {
		c.DumpFileName = defaultDumpFileName
	}
}

// MustLoad reads the yaml config at path and applies environment overrides.
// A missing config file is not an error, a malformed one is fatal.
func MustLoad(path string) *Config {
	// Secrets usually live in .env next to the binary.
	_ = godotenv.Load()

	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			panic(fmt.Sprintf("cannot read config file %s: %s", path, err))
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		panic(fmt.Sprintf("cannot parse config file %s: %s", path, err))
	}

	cfg.applyEnv()
	cfg.SetDefaults()

	return &cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Listen = ":" + v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		c.MongoURI = v
	}
	if v := os.Getenv("MONGO_DB"); v != "" {
		c.MongoDB = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
}
