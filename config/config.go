// config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfigDir         = "HH_CONFIG_DIR"
	EnvConfigFile        = "HH_CONFIG_FILE"
	EnvDBDriver          = "HH_DB_DRIVER"
	EnvDBPath            = "HH_DB_PATH"
	EnvDBDSN             = "HH_DB_DSN"
	EnvM365Config        = "HH_M365_CONFIG"
	EnvExportDir         = "HH_EXPORT_DIR"
	EnvNotificationsFile = "HH_NOTIFICATIONS_FILE"
	EnvHTTPAddr          = "HH_HTTP_ADDR"
	EnvProofURL          = "HH_PROOF_URL"
)

const (
	DefaultDBDriver          = "sqlite"
	DefaultDBPath            = "hometown_hero.db"
	DefaultM365Config        = "m365_config.json"
	DefaultExportDir         = "exports"
	DefaultNotificationsFile = "notifications.txt"
	DefaultHTTPAddr          = ":8080"
	DefaultProofURL          = "https://www.millcreekkiwanis.org/about-9"
	DefaultConfigFile        = "config.yaml"
)

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite or mysql
	Path   string `yaml:"path"`   // sqlite file
	DSN    string `yaml:"dsn"`    // mysql only
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type MailConfig struct {
	ConfigPath string `yaml:"config_path"`
	ProofURL   string `yaml:"proof_url"`
}

type Config struct {
	Database          DatabaseConfig `yaml:"database"`
	Server            ServerConfig   `yaml:"server"`
	Mail              MailConfig     `yaml:"mail"`
	ExportDir         string         `yaml:"export_dir"`
	NotificationsFile string         `yaml:"notifications_file"`

	ConfigDir  string `yaml:"-"` // HH_CONFIG_DIR, empty when unset
	ConfigFile string `yaml:"-"` // YAML file that was read, empty when none

	loadWarnings []Warning
}

// Load resolves the configuration. Precedence, highest first: process
// environment, the .env file, the YAML file, built-in defaults.
// The process environment is never modified.
func Load() (*Config, error) {
	cfg := &Config{ConfigDir: os.Getenv(EnvConfigDir)}

	dotenv, err := cfg.readDotEnv()
	if err != nil {
		return nil, err
	}
	lookup := func(key string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(dotenv[key])
	}

	if err := cfg.readYAML(lookup(EnvConfigFile)); err != nil {
		return nil, err
	}

	override := func(dst *string, key, def string) {
		if v := lookup(key); v != "" {
			*dst = v
		}
		if *dst == "" {
			*dst = def
		}
	}
	override(&cfg.Database.Driver, EnvDBDriver, DefaultDBDriver)
	override(&cfg.Database.Path, EnvDBPath, DefaultDBPath)
	override(&cfg.Database.DSN, EnvDBDSN, "")
	override(&cfg.Mail.ConfigPath, EnvM365Config, DefaultM365Config)
	override(&cfg.Mail.ProofURL, EnvProofURL, DefaultProofURL)
	override(&cfg.ExportDir, EnvExportDir, DefaultExportDir)
	override(&cfg.NotificationsFile, EnvNotificationsFile, DefaultNotificationsFile)
	override(&cfg.Server.Addr, EnvHTTPAddr, DefaultHTTPAddr)

	cfg.Database.Driver = strings.ToLower(cfg.Database.Driver)
	switch cfg.Database.Driver {
	case "sqlite", "mysql":
	default:
		return nil, fmt.Errorf("unsupported %s %q (want sqlite or mysql)", EnvDBDriver, cfg.Database.Driver)
	}

	return cfg, nil
}

func (c *Config) readDotEnv() (map[string]string, error) {
	path := ".env"
	if c.ConfigDir != "" {
		path = filepath.Join(c.ConfigDir, ".env")
	}

	values, err := godotenv.Read(path)
	switch {
	case err == nil:
		return values, nil
	case errors.Is(err, fs.ErrNotExist):
		if c.ConfigDir != "" {
			c.loadWarnings = append(c.loadWarnings, Warning{
				Area:    AreaConfig,
				Message: fmt.Sprintf("%s set to %s but no .env file found there", EnvConfigDir, c.ConfigDir),
			})
		}
		return map[string]string{}, nil
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
}

// readYAML decodes the YAML config file into c. An explicitly named file must
// exist; the default one is optional.
func (c *Config) readYAML(explicit string) error {
	path := explicit
	if path == "" {
		path = DefaultConfigFile
		if c.ConfigDir != "" {
			path = filepath.Join(c.ConfigDir, DefaultConfigFile)
		}
	}

	file, err := os.ReadFile(path)
	if err != nil {
		if explicit == "" && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(file, c); err != nil {
		return fmt.Errorf("failed to unmarshal config %s: %w", path, err)
	}
	c.ConfigFile = path
	return nil
}
