// mail/config.go
package mail

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNotConfigured means there is no usable credential file.
	ErrNotConfigured = errors.New("mail integration is not configured")
	// ErrAuthFailed means the tenant rejected the client credentials.
	ErrAuthFailed = errors.New("mail authentication failed")
)

// Delivery modes.
const (
	ModeSend  = "send"
	ModeDraft = "draft"
)

const placeholderPrefix = "YOUR_"

// Config is the Azure AD app registration used to reach the mailbox.
// The file is JSON; it is decoded as YAML, which accepts JSON as written.
type Config struct {
	ClientID     string `yaml:"client_id" json:"client_id"`
	ClientSecret string `yaml:"client_secret" json:"client_secret"`
	TenantID     string `yaml:"tenant_id" json:"tenant_id"`
	Sender       string `yaml:"sender" json:"sender"` // mailbox that sends and receives
	Mode         string `yaml:"mode" json:"mode"`
}

// LoadConfig reads the credential file. A missing file, or one still holding
// template placeholders, yields ErrNotConfigured.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s not found", ErrNotConfigured, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read mail config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse mail config %s: %w", path, err)
	}
	if cfg.TenantID == "" {
		cfg.TenantID = "common"
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeSend
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotConfigured, path, err)
	}
	return &cfg, nil
}

func (c Config) validate() error {
	required := []struct{ name, value string }{
		{"client_id", c.ClientID},
		{"client_secret", c.ClientSecret},
		{"sender", c.Sender},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%s is empty", f.name)
		}
		if strings.HasPrefix(f.value, placeholderPrefix) {
			return fmt.Errorf("%s still holds the template placeholder", f.name)
		}
	}
	if strings.HasPrefix(c.TenantID, placeholderPrefix) {
		return errors.New("tenant_id still holds the template placeholder")
	}
	switch c.Mode {
	case ModeSend, ModeDraft:
		return nil
	default:
		return fmt.Errorf("mode %q is not %q or %q", c.Mode, ModeSend, ModeDraft)
	}
}

// WriteTemplate creates a credential file with placeholders to fill in.
// An existing file is left alone.
func WriteTemplate(path string) error {
	template := Config{
		ClientID:     "YOUR_AZURE_AD_CLIENT_ID",
		ClientSecret: "YOUR_AZURE_AD_CLIENT_SECRET",
		TenantID:     "YOUR_TENANT_ID_OR_common",
		Sender:       "YOUR_MAILBOX@example.org",
		Mode:         ModeDraft,
	}
	data, err := json.MarshalIndent(template, "", "  ")
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("mail config %s already exists", path)
	}
	if err != nil {
		return fmt.Errorf("failed to create mail config %s: %w", path, err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("failed to write mail config %s: %w", path, err)
	}
	return f.Close()
}
