package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Template renders cfg in config.toml form.
func Template(cfg InspectorConfig) (string, error) {
	file := inspectorFile{
		Name:            cfg.Name,
		Addr:            cfg.Addr,
		CorsOrigins:     cfg.CorsOrigins,
		Vendors:         cfg.Vendors,
		MaxMessageBytes: cfg.MaxMessageBytes,
		Lenient:         cfg.Lenient,
	}
	for _, v := range cfg.Versions {
		file.Versions = append(file.Versions, v.String())
	}
	out, err := toml.Marshal(file)
	if err != nil {
		return "", fmt.Errorf("config render failed: %w", err)
	}
	return string(out), nil
}

func WriteTemplate(path string, overwrite bool) error {
	template, err := Template(DefaultInspectorConfig())
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}
