package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/ofwire/internal/codec"
	"github.com/danmuck/ofwire/internal/protocol"
)

const (
	DefaultName            = "ofinspect"
	DefaultAddr            = ":9300"
	DefaultMaxMessageBytes = 0xffff
	DefaultInspectorPath   = "cmd/ofinspect/config.toml"
)

// InspectorConfig is the resolved ofinspect configuration.
type InspectorConfig struct {
	Name            string
	Addr            string
	CorsOrigins     []string
	Versions        []protocol.Version
	Vendors         []string
	MaxMessageBytes int
	Lenient         bool
}

// inspectorFile maps config.toml keys.
type inspectorFile struct {
	Name            string   `toml:"name"`
	Addr            string   `toml:"addr"`
	CorsOrigins     []string `toml:"cors_origins"`
	Versions        []string `toml:"versions"`
	Vendors         []string `toml:"vendors"`
	MaxMessageBytes int      `toml:"max_message_bytes"`
	Lenient         bool     `toml:"lenient"`
}

func DefaultInspectorConfig() InspectorConfig {
	return InspectorConfig{
		Name:            DefaultName,
		Addr:            DefaultAddr,
		CorsOrigins:     []string{"http://localhost:3000"},
		Versions:        append([]protocol.Version(nil), protocol.Versions...),
		Vendors:         codec.VendorNames(),
		MaxMessageBytes: DefaultMaxMessageBytes,
	}
}

// LoadInspectorConfig overlays the keys present in path on the defaults.
func LoadInspectorConfig(path string) (InspectorConfig, error) {
	cfg := DefaultInspectorConfig()

	var raw inspectorFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return InspectorConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return InspectorConfig{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("name") {
		cfg.Name = strings.TrimSpace(raw.Name)
	}
	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = raw.CorsOrigins
	}
	if meta.IsDefined("versions") {
		cfg.Versions = cfg.Versions[:0]
		for _, s := range raw.Versions {
			v, err := protocol.ParseVersion(s)
			if err != nil {
				return InspectorConfig{}, fmt.Errorf("config parse failed (%s): %w", path, err)
			}
			cfg.Versions = append(cfg.Versions, v)
		}
	}
	if meta.IsDefined("vendors") {
		cfg.Vendors = raw.Vendors
	}
	if meta.IsDefined("max_message_bytes") {
		cfg.MaxMessageBytes = raw.MaxMessageBytes
	}
	if meta.IsDefined("lenient") {
		cfg.Lenient = raw.Lenient
	}

	if err := ValidateInspectorConfig(cfg); err != nil {
		return InspectorConfig{}, err
	}
	return cfg, nil
}

func ValidateInspectorConfig(cfg InspectorConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("inspector config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("inspector config missing addr")
	}
	if len(cfg.Versions) == 0 {
		return fmt.Errorf("inspector config needs at least one version")
	}
	seen := make(map[protocol.Version]bool, len(cfg.Versions))
	for _, v := range cfg.Versions {
		if seen[v] {
			return fmt.Errorf("inspector config lists version %s twice", v)
		}
		seen[v] = true
	}
	known := make(map[string]bool)
	for _, name := range codec.VendorNames() {
		known[name] = true
	}
	for i, name := range cfg.Vendors {
		if !known[name] {
			return fmt.Errorf("vendor[%d] invalid: unknown vendor %q", i, name)
		}
	}
	if cfg.MaxMessageBytes < 8 || cfg.MaxMessageBytes > DefaultMaxMessageBytes {
		return fmt.Errorf("max_message_bytes %d outside [8, %d]", cfg.MaxMessageBytes, DefaultMaxMessageBytes)
	}
	return nil
}
