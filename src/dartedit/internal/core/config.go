package core

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/uber/dartedit/src/dartedit/config"
	uber_config "go.uber.org/config"
	"go.uber.org/fx"
)

const _configDirEnv = "DARTEDIT_CONFIG_DIR"

var ConfigModule = fx.Options(
	fx.Provide(NewConfig),
)

// ConfigOptions are set from the command line.
type ConfigOptions struct {
	// Dir holds a meta.yaml listing files to layer over the defaults. Falls back to $DARTEDIT_CONFIG_DIR.
	Dir string
	// Debug forces debug logging regardless of configuration.
	Debug bool
}

type Config struct {
	provider uber_config.Provider
}

func (c Config) Get(path string) uber_config.Value {
	return c.provider.Get(path)
}

func (c Config) Name() string {
	return "config"
}

func NewConfig(opts ConfigOptions) (uber_config.Provider, error) {
	options := []uber_config.YAMLOption{
		uber_config.Source(bytes.NewReader(config.Defaults)),
	}

	configDir := opts.Dir
	if configDir == "" {
		configDir = os.Getenv(_configDirEnv)
	}

	if configDir != "" {
		files, err := configFiles(configDir)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			options = append(options, uber_config.File(file))
		}
	}

	if opts.Debug {
		options = append(options, uber_config.Static(map[string]interface{}{
			"logging": map[string]interface{}{"level": "debug"},
		}))
	}
	options = append(options, uber_config.Expand(os.LookupEnv))

	// Create the provider with all files and environment variable substitution
	provider, err := uber_config.NewYAML(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return Config{provider: provider}, nil
}

// configFiles reads meta.yaml in configDir and returns the listed files that exist.
func configFiles(configDir string) ([]string, error) {
	metaPath := filepath.Join(configDir, "meta.yaml")
	metaProvider, err := uber_config.NewYAML(
		uber_config.File(metaPath),
		uber_config.Expand(os.LookupEnv),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load meta configuration: %w", err)
	}

	var files []string
	if err := metaProvider.Get("files").Populate(&files); err != nil {
		return nil, fmt.Errorf("failed to read files list from meta.yaml: %w", err)
	}

	var validFiles []string
	for _, file := range files {
		fullPath := filepath.Join(configDir, file)
		if _, err := os.Stat(fullPath); err == nil {
			validFiles = append(validFiles, fullPath)
		}
	}

	if len(validFiles) == 0 {
		return nil, fmt.Errorf("no configuration files found in %s", configDir)
	}
	return validFiles, nil
}
