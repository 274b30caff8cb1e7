package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"os"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit          string        `yaml:"git_commit" envconfig:"BSB_GIT_COMMIT"`
	GitTag             string        `yaml:"git_tag" envconfig:"BSB_GIT_TAG"`
	BuildTime          string        `yaml:"build_time" envconfig:"BSB_BUILD_TIME"`
	IsProduction       bool          `yaml:"is_production" envconfig:"BSB_IS_PRODUCTION"`
	LogLevel           zapcore.Level `yaml:"log_level" envconfig:"BSB_LOG_LEVEL"`
	LogFolder          string        `yaml:"log_folder" envconfig:"BSB_LOG_FOLDER"`
	LogMaxSize         int           `yaml:"log_max_size" envconfig:"BSB_LOG_MAX_SIZE"`
	ProfilerEnable     bool          `yaml:"profiler_enable" envconfig:"BSB_PROFILER_ENABLE"`
	OpsEndpointsEnable bool          `yaml:"ops_endpoints_enable" envconfig:"BSB_OPS_ENDPOINTS_ENABLE"`
	Server             ServerConfig  `yaml:"server"`
	Backend            BackendConfig `yaml:"backend"`
	Redis              RedisConfig   `yaml:"redis"`
	BoltDB             BoltDBConfig  `yaml:"boltdb"`
	Audit              AuditConfig   `yaml:"audit"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"BSB_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"BSB_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"BSB_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"BSB_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"BSB_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"BSB_SERVER_SHUTDOWN_TIMEOUT"`
}

// BackendConfig describes how to reach the bookstore backend api. The
// base url serves all authenticated write paths. The candidates list
// serves the public read paths: each url is probed in order until one
// answers, which covers local setups where the backend may listen on
// several ports. When the list is left empty it is derived from the
// base url plus the usual local development addresses.
type BackendConfig struct {
	BaseURL            string        `yaml:"base_url" envconfig:"BSB_BACKEND_BASE_URL"`
	Candidates         []string      `yaml:"candidates" envconfig:"BSB_BACKEND_CANDIDATES"`
	ProbeTimeout       time.Duration `yaml:"probe_timeout" envconfig:"BSB_BACKEND_PROBE_TIMEOUT"`
	HealthProbeTimeout time.Duration `yaml:"health_probe_timeout" envconfig:"BSB_BACKEND_HEALTH_PROBE_TIMEOUT"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"BSB_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"BSB_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"BSB_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"BSB_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"BSB_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"BSB_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"BSB_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"BSB_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"BSB_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"BSB_REDIS_DATABASE_INDEX"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"BSB_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"BSB_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"BSB_BOLTDB_BUCKET_NAME"`
}

// AuditConfig toggles the admin actions audit trail. When disabled the
// service runs without redis and boltdb at all.
type AuditConfig struct {
	Enable bool `yaml:"enable" envconfig:"BSB_AUDIT_ENABLE"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	if len(config.Backend.BaseURL) == 0 {
		config.Backend.BaseURL = "http://localhost:5233"
	}

	if config.Backend.ProbeTimeout == 0 {
		config.Backend.ProbeTimeout = 4 * time.Second
	}

	if config.Backend.HealthProbeTimeout == 0 {
		config.Backend.HealthProbeTimeout = 5 * time.Second
	}

	if len(config.Backend.Candidates) == 0 {
		config.Backend.Candidates = []string{
			config.Backend.BaseURL,
			"http://localhost:5233",
			"http://127.0.0.1:5233",
			"https://localhost:7091",
		}
	}
	config.Backend.Candidates = dedupNonEmpty(config.Backend.Candidates)

	if config.Audit.Enable {
		if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
			return errors.New("make sure to set valid redis address and port in configuration file")
		}
		if len(config.BoltDB.FilePath) == 0 || len(config.BoltDB.BucketName) == 0 {
			return errors.New("make sure to set valid boltdb file path and bucket in configuration file")
		}
	}

	return nil
}

// dedupNonEmpty drops empty entries and duplicates while keeping order.
func dedupNonEmpty(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	err = godotenv.Load("./config.env")
	if err != nil && !os.IsNotExist(err) {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `BSB`.
	err = LoadConfigEnvs("BSB", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
