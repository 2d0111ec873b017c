package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	QA      QAConfig      `yaml:"qa"`
	Dirs    DirsConfig    `yaml:"dirs"`
	Log     LogConfig     `yaml:"log"`
	Store   StoreConfig   `yaml:"store"`
	Archive ArchiveConfig `yaml:"archive"`
	Sweeper SweeperConfig `yaml:"sweeper"`
}

type ServerConfig struct {
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
}

type QAConfig struct {
	APIURL         string `yaml:"api_url"`
	APIToken       string `yaml:"api_token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type DirsConfig struct {
	Messages string `yaml:"messages"`
	URLs     string `yaml:"urls"`
	Output   string `yaml:"output"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type StoreConfig struct {
	MaxBatches int `yaml:"max_batches"`
}

type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type SweeperConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Spec       string `yaml:"spec"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Load reads the YAML config at path. A missing file is not an error;
// the server runs on defaults so a bare checkout still works.
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.StaticDir == "" {
		cfg.Server.StaticDir = "static"
	}
	if cfg.QA.APIURL == "" {
		cfg.QA.APIURL = "https://app-adt-02.azurewebsites.net/api/message"
	}
	if cfg.QA.TimeoutSeconds == 0 {
		cfg.QA.TimeoutSeconds = 60
	}
	if cfg.Dirs.Messages == "" {
		cfg.Dirs.Messages = "messages"
	}
	if cfg.Dirs.URLs == "" {
		cfg.Dirs.URLs = "urls"
	}
	if cfg.Dirs.Output == "" {
		cfg.Dirs.Output = "output"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Store.MaxBatches == 0 {
		cfg.Store.MaxBatches = 100
	}
	if cfg.Sweeper.Spec == "" {
		cfg.Sweeper.Spec = "0 0 2 * * *"
	}
	if cfg.Sweeper.MaxAgeDays == 0 {
		cfg.Sweeper.MaxAgeDays = 14
	}

	applyEnv(&cfg)
	return &cfg, nil
}

// applyEnv lets deployment secrets override file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("QA_API_URL"); v != "" {
		cfg.QA.APIURL = v
	}
	if v := os.Getenv("QA_API_TOKEN"); v != "" {
		cfg.QA.APIToken = v
	}
	if v := os.Getenv("ARCHIVE_ACCESS_KEY"); v != "" {
		cfg.Archive.AccessKey = v
	}
	if v := os.Getenv("ARCHIVE_SECRET_KEY"); v != "" {
		cfg.Archive.SecretKey = v
	}
}
