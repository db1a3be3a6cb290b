package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/jimelj/machine-scheduler/internal/model"
)

// AppConfig is the application configuration.
type AppConfig struct {
	Server    ServerConfig    `toml:"server"`
	Data      DataConfig      `toml:"data"`
	Scheduler SchedulerConfig `toml:"scheduler"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig configures file locations.
type DataConfig struct {
	DataDir string `toml:"data_dir"`
	// MailDatesFile points at the "Zips by Address" table; when empty the
	// data dir and working directory are searched for known file names.
	MailDatesFile string `toml:"maildates_file"`
}

// SchedulerConfig carries the scheduling defaults applied when an upload
// does not set them explicitly.
type SchedulerConfig struct {
	Machines int    `toml:"machines"`
	Method   string `toml:"method"`
}

// DefaultConfig returns the configuration used when no config.toml exists.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    8080,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir:       "data",
			MailDatesFile: "",
		},
		Scheduler: SchedulerConfig{
			Machines: 3,
			Method:   string(model.MethodByStore),
		},
	}
}

// GetExeDir returns the directory of the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig reads config.toml from the executable's directory. On first
// run the file does not exist yet; the defaults are written out so operators
// have a file to edit. Environment variables override individual keys
// afterwards.
func LoadConfig() (*AppConfig, error) {
	cfg := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Best effort; a read-only install still runs on defaults.
			_ = SaveConfig(cfg)
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv applies environment overrides (also sourced from .env via
// godotenv in main).
func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("SCHEDULER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SCHEDULER_DATA_DIR"); v != "" {
		cfg.Data.DataDir = v
	}
	if v := os.Getenv("SCHEDULER_MAILDATES_FILE"); v != "" {
		cfg.Data.MailDatesFile = v
	}
}

// SaveConfig writes the configuration back to config.toml.
func SaveConfig(cfg *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(exeDir, "config.toml"), data, 0644)
}

// EnsureDataDir creates the data directory and its subdirectories next to
// the executable and returns its path.
func EnsureDataDir(cfg *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := filepath.Join(exeDir, cfg.Data.DataDir)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	for _, subdir := range []string{"uploads", "exports"} {
		if err := os.MkdirAll(filepath.Join(dataDir, subdir), 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}
