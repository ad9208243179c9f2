package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileConfig is the optional YAML overlay. Anything left empty keeps the
// value resolved from the environment.
type FileConfig struct {
	AppAddr  string `yaml:"app_addr"`
	PageSize int    `yaml:"page_size"`

	Upstream struct {
		BaseURL string `yaml:"base_url"`
		// Per-family overrides, e.g. a chatbot service hosted separately.
		Orders    string `yaml:"orders"`
		Packing   string `yaml:"packing"`
		Workers   string `yaml:"workers"`
		Inventory string `yaml:"inventory"`
		Chatbot   string `yaml:"chatbot"`
	} `yaml:"upstream"`

	InventoryMode string `yaml:"inventory_mode"` // "rest" (default) or "mysql"
}

// LoadFile parses the YAML config at path. A missing path is not an error so
// deployments can run on env vars alone.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	if strings.TrimSpace(path) == "" {
		return fc, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return fc, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fc, fmt.Errorf("parse config file: %w", err)
	}
	return fc, nil
}

// Apply overlays fc onto env-resolved settings.
func (fc FileConfig) Apply(env *Env) {
	if strings.TrimSpace(fc.AppAddr) != "" {
		env.AppAddr = fc.AppAddr
	}
	if fc.PageSize > 0 {
		env.PageSize = fc.PageSize
	}
	if strings.TrimSpace(fc.Upstream.BaseURL) != "" {
		env.UpstreamBaseURL = fc.Upstream.BaseURL
	}
}

// UpstreamFor resolves the base URL of one entity family, preferring the
// per-family override when present.
func (fc FileConfig) UpstreamFor(family, fallback string) string {
	var v string
	switch family {
	case "orders":
		v = fc.Upstream.Orders
	case "packing":
		v = fc.Upstream.Packing
	case "workers":
		v = fc.Upstream.Workers
	case "inventory":
		v = fc.Upstream.Inventory
	case "chatbot":
		v = fc.Upstream.Chatbot
	}
	if strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}
