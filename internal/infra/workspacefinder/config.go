package workspacefinder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alignedworks/cvx/internal/domain"
	"github.com/alignedworks/cvx/internal/tokenmath"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the workspace marker and configuration file.
const ConfigFile = "cvx.yaml"

// LoadConfig loads cvx.yaml from the workspace root and applies defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, ConfigFile)
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	return ParseConfig(path, b)
}

// ParseConfig applies the YAML document on top of domain.DefaultConfig.
func ParseConfig(path string, b []byte) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	if u := strings.TrimSpace(y.CVX.API.BaseURL); u != "" {
		cfg.API.BaseURL = u
	}
	if y.CVX.API.Timeout != "" {
		d, err := parseDuration("cvx.api.timeout", y.CVX.API.Timeout)
		if err != nil {
			return cfg, invalidField(path, err)
		}
		cfg.API.Timeout = d
	}
	if y.CVX.Session.IdleTimeout != "" {
		d, err := parseDuration("cvx.session.idle_timeout", y.CVX.Session.IdleTimeout)
		if err != nil {
			return cfg, invalidField(path, err)
		}
		cfg.Session.IdleTimeout = d
	}
	if f := strings.TrimSpace(y.CVX.Session.File); f != "" {
		cfg.Session.File = f
	}
	if y.CVX.Preview.Cycles != nil {
		if n := *y.CVX.Preview.Cycles; n <= 0 || n > tokenmath.MaxCycleCount {
			return cfg, invalidField(path, fmt.Errorf("field cvx.preview.cycles: must be between 1 and %d, got %d", tokenmath.MaxCycleCount, n))
		}
		cfg.Preview.Cycles = *y.CVX.Preview.Cycles
	}

	return cfg, nil
}

func parseDuration(field, v string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("field %s: must not be negative", field)
	}
	return d, nil
}

func invalidField(path string, err error) error {
	return &domain.OpError{
		Op:   "workspacefinder.loadconfig",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("%w: %w", err, domain.ErrInvalidConfig),
	}
}

type yamlConfig struct {
	CVX struct {
		API struct {
			BaseURL string `yaml:"base_url"`
			Timeout string `yaml:"timeout"`
		} `yaml:"api"`

		Session struct {
			IdleTimeout string `yaml:"idle_timeout"`
			File        string `yaml:"file"`
		} `yaml:"session"`

		Preview struct {
			Cycles *int `yaml:"cycles"`
		} `yaml:"preview"`
	} `yaml:"cvx"`
}
