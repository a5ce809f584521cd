package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "termset.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/termset"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger

	// workDir is where the project config search starts (default: cwd)
	workDir string
	// homeDir locates the user config (default: the user's home directory)
	homeDir string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// WithDirs overrides the working and home directories used for config
// discovery.
func (l *Loader) WithDirs(workDir, homeDir string) *Loader {
	l.workDir = workDir
	l.homeDir = homeDir
	return l
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/termset/config.yaml)
// 3. Project config (termset.yaml in current or parent directories)
// 4. Explicit config file (explicitPath, when non-empty)
//
// Relative paths are resolved against the directory of the most specific
// config file found, or the working directory when there is none.
func (l *Loader) Load(explicitPath string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()
	baseDir := l.cwd()

	// Load user config
	userConfigPath := l.userConfigPath()
	if userConfigPath != "" {
		if userConfig, err := LoadFromFile(userConfigPath); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", userConfigPath))
			config.Merge(userConfig)
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Failed to load user config", slog.String("path", userConfigPath), slog.String("error", err.Error()))
		}
	}

	// Load project config
	projectConfigPath := l.findProjectConfig()
	if projectConfigPath != "" {
		if projectConfig, err := LoadFromFile(projectConfigPath); err == nil {
			l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
			config.Merge(projectConfig)
			baseDir = filepath.Dir(projectConfigPath)
		} else {
			l.logger.Warn("Failed to load project config", slog.String("path", projectConfigPath), slog.String("error", err.Error()))
		}
	} else {
		l.logger.Debug("No project config found")
	}

	// Load explicit config; failures here are not recoverable
	if explicitPath != "" {
		explicitConfig, err := LoadFromFile(explicitPath)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config", slog.String("path", explicitPath))
		config.Merge(explicitConfig)
		if abs, err := filepath.Abs(explicitPath); err == nil {
			baseDir = filepath.Dir(abs)
		}
	}

	config.ResolvePaths(baseDir)

	// Validate final config
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// EnsureUserConfig creates the user config file with defaults if it doesn't
// exist and returns its path
func (l *Loader) EnsureUserConfig() (string, error) {
	userConfigPath := l.userConfigPath()

	// Check if it already exists
	if _, err := os.Stat(userConfigPath); err == nil {
		return userConfigPath, nil // Already exists
	}

	// Create default config
	config := DefaultConfig()
	if err := config.SaveToFile(userConfigPath); err != nil {
		return "", err
	}

	l.logger.Info("Created default user config", slog.String("path", userConfigPath))
	return userConfigPath, nil
}

func (l *Loader) cwd() string {
	if l.workDir != "" {
		return l.workDir
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// userConfigPath returns the path to the user config file
func (l *Loader) userConfigPath() string {
	home := l.homeDir
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return ""
		}
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig searches for termset.yaml in current and parent directories
func (l *Loader) findProjectConfig() string {
	dir := l.cwd()
	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return ""
}
