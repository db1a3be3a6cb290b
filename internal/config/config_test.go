package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jimelj/machine-scheduler/internal/model"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Scheduler.Machines != 3 {
		t.Errorf("Machines = %d, want 3", cfg.Scheduler.Machines)
	}
	if cfg.Scheduler.Method != string(model.MethodByStore) {
		t.Errorf("Method = %q, want %q", cfg.Scheduler.Method, model.MethodByStore)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	exeDir, err := GetExeDir()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove(filepath.Join(exeDir, "config.toml")) })

	cfg := DefaultConfig()
	cfg.Server.Port = 9191
	cfg.Scheduler.Machines = 5
	if err := SaveConfig(cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9191 {
		t.Errorf("Port = %d, want 9191", loaded.Server.Port)
	}
	if loaded.Scheduler.Machines != 5 {
		t.Errorf("Machines = %d, want 5", loaded.Scheduler.Machines)
	}
}

func TestLoadConfigWritesDefaultsOnFirstRun(t *testing.T) {
	exeDir, err := GetExeDir()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(exeDir, "config.toml")
	os.Remove(path)
	t.Cleanup(func() { os.Remove(path) })

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want default 8080", cfg.Server.Port)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config.toml not written on first run: %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SCHEDULER_PORT", "9090")
	t.Setenv("SCHEDULER_DATA_DIR", "/tmp/sched-data")
	t.Setenv("SCHEDULER_MAILDATES_FILE", "/tmp/zips.xlsx")

	cfg := DefaultConfig()
	applyEnv(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Data.DataDir != "/tmp/sched-data" {
		t.Errorf("DataDir = %q, want /tmp/sched-data", cfg.Data.DataDir)
	}
	if cfg.Data.MailDatesFile != "/tmp/zips.xlsx" {
		t.Errorf("MailDatesFile = %q, want /tmp/zips.xlsx", cfg.Data.MailDatesFile)
	}
}

func TestApplyEnvIgnoresInvalidPort(t *testing.T) {
	t.Setenv("SCHEDULER_PORT", "not-a-port")

	cfg := DefaultConfig()
	applyEnv(cfg)

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want default 8080", cfg.Server.Port)
	}
}
