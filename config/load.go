package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	swgenerrors "github.com/leodido/swgen/errors"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Extensions lists the configuration file types the loader understands.
//
// Files with any other (or without) extension are parsed as JSON.
var Extensions = []string{"json", "yaml", "yml", "toml"}

// Loader reads configurations from files.
type Loader struct {
	Fs     afero.Fs
	Logger *zap.Logger
}

// NewLoader creates a loader reading from the fs filesystem.
func NewLoader(fs afero.Fs, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Loader{Fs: fs, Logger: logger}
}

// Load parses the configuration file at path.
//
// The result is only checked syntactically: whether its root path exists is the resolver business.
func (l *Loader) Load(path string) (Configuration, error) {
	cfg, err := l.load(path)
	if err != nil {
		l.Logger.Error("Couldn't load configuration", zap.String("path", path), zap.Error(err))

		return Configuration{}, err
	}
	l.Logger.Info("Configuration loaded", zap.String("path", path), zap.Int("include", len(cfg.Include)))

	return cfg, nil
}

func (l *Loader) load(path string) (Configuration, error) {
	info, err := l.Fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Configuration{}, swgenerrors.NewNotFoundError("configuration file", path)
		}

		return Configuration{}, fmt.Errorf("couldn't access configuration file %s: %w", path, err)
	}
	if info.IsDir() {
		return Configuration{}, swgenerrors.NewMalformedConfigError(path, fmt.Errorf("is a directory"))
	}

	v := viper.New()
	v.SetFs(l.Fs)
	v.SetConfigFile(path)
	v.SetConfigType(configType(path))

	if err := v.ReadInConfig(); err != nil {
		return Configuration{}, swgenerrors.NewMalformedConfigError(path, err)
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg, strict); err != nil {
		return Configuration{}, swgenerrors.NewMalformedConfigError(path, err)
	}

	return cfg.WithDefaults(), nil
}

// strict disables the weak typing and the comma splitting viper decodes with by default.
func strict(dc *mapstructure.DecoderConfig) {
	dc.WeaklyTypedInput = false
	dc.DecodeHook = nil
}

func configType(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !slices.Contains(Extensions, ext) {
		return "json"
	}

	return ext
}

// Load parses the configuration file at path on the OS filesystem.
func Load(path string) (Configuration, error) {
	return NewLoader(afero.NewOsFs(), nil).Load(path)
}

// Save writes the configuration to path as indented JSON, overwriting any existing file.
func Save(fs afero.Fs, path string, cfg Configuration) error {
	data, err := json.MarshalIndent(cfg.WithDefaults(), "", "  ")
	if err != nil {
		return fmt.Errorf("couldn't encode configuration: %w", err)
	}
	data = append(data, '\n')

	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("couldn't write configuration to %s: %w", path, err)
	}

	return nil
}
