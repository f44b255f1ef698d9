package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the shape of a peel config file (YAML), loaded via
// --config and overridden by any explicit flags the caller also passes.
type fileConfig struct {
	MaxDepth  int    `yaml:"max_depth"`
	LogLevel  string `yaml:"log_level"`
	Listen    string `yaml:"listen"`
	JWTSecret string `yaml:"jwt_secret"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
