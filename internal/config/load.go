package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names an optional YAML file layered between defaults and
// the environment.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotenvPath is loaded into the process environment before reading it.
var DotenvPath = ".env"

var envKeys = map[string]string{
	"node_env":    "environment",
	"environment": "environment",

	"host":                 "gateway.host",
	"port":                 "gateway.port",
	"server_read_timeout":  "gateway.read_timeout_secs",
	"server_write_timeout": "gateway.write_timeout_secs",
	"server_idle_timeout":  "gateway.idle_timeout_secs",

	"tmdb_token":            "tmdb.token",
	"tmdb_base_url":         "tmdb.base_url",
	"upstream_timeout_secs": "tmdb.timeout_secs",

	"edge_host":         "edge.host",
	"edge_port":         "edge.port",
	"api_base_url":      "edge.api_base_url",
	"nuxt_api_base_url": "edge.api_base_url",
	"image_base_url":    "edge.image_base_url",
	"edge_timeout_secs": "edge.timeout_secs",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
	"log_file":   "logging.file",

	"cors_origins": "cors_origins",
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. It does not check
// tier-specific requirements; see LoadGateway and LoadEdge.
func Load() (Config, error) {
	if err := godotenv.Load(DotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", DotenvPath, err)
	}

	k := koanf.New(".")
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(&defaults, "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}
	if err := splitList(k, "cors_origins"); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validateCommon(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadGateway loads configuration and validates it for the gateway.
func LoadGateway() (Config, error) {
	cfg, err := Load()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.ValidateGateway(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadEdge loads configuration and validates it for the edge proxy.
func LoadEdge() (Config, error) {
	cfg, err := Load()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.ValidateEdge(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey maps an environment variable to its config path. Unknown variables
// map to "" and are skipped.
func envKey(key string) string {
	return envKeys[strings.ToLower(key)]
}

// splitList turns a comma separated string at path into a string slice.
func splitList(k *koanf.Koanf, path string) error {
	raw, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	if err := k.Set(path, items); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}
