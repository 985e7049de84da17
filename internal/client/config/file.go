package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/connectlink/internal/flagx"
	"github.com/dmitrijs2005/connectlink/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape. Durations go through timex.Duration so
// "10s" and integer nanoseconds both work.
type fileConfig struct {
	ServerURL      string         `json:"server_url" yaml:"server_url"`
	SessionFile    string         `json:"session_file" yaml:"session_file"`
	RequestTimeout timex.Duration `json:"request_timeout" yaml:"request_timeout"`
}

// parseFile overlays cfg with the file named by -c/-config. YAML is used
// for .yaml/.yml files, JSON otherwise. Panics on read or decode errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	if fc.ServerURL != "" {
		cfg.ServerURL = fc.ServerURL
	}
	if fc.SessionFile != "" {
		cfg.SessionFile = fc.SessionFile
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
}
