package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/service"
)

// Config is the lock controller configuration. Defaults are overridden by an
// optional YAML file, which is overridden by PORTUNUS_* environment variables.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Timing    TimingConfig    `yaml:"timing"`
	Indicator IndicatorConfig `yaml:"indicator"`
	Journal   JournalConfig   `yaml:"journal"`
	Sim       SimConfig       `yaml:"sim"`

	// Read-only status surfaces. Empty disables them.
	HTTPAddr string `yaml:"http_addr"`
	GRPCAddr string `yaml:"grpc_addr"`
}

type StorageConfig struct {
	Root        string `yaml:"root"`
	Credentials string `yaml:"credentials"`
	BootCounter string `yaml:"boot_counter"`
	AuditLog    string `yaml:"audit_log"`
}

// TimingConfig holds every controller timing in milliseconds.
type TimingConfig struct {
	CooldownMS    int `yaml:"cooldown_ms"`
	HoldPhaseMS   int `yaml:"hold_phase_ms"`
	MaxUnlockMS   int `yaml:"max_unlock_ms"`
	StrongPulseMS int `yaml:"strong_pulse_ms"`
	DeniedHoldMS  int `yaml:"denied_hold_ms"`
	LogSettleMS   int `yaml:"log_settle_ms"`
	ReadTimeoutMS int `yaml:"read_timeout_ms"`
	LoopDelayMS   int `yaml:"loop_delay_ms"`
	IgnoreDelayMS int `yaml:"ignore_delay_ms"`
}

type IndicatorConfig struct {
	Intensity int `yaml:"intensity"`
}

type JournalConfig struct {
	Path               string `yaml:"path"` // "" = no journal
	RetentionDays      int    `yaml:"retention_days"`
	PruneIntervalHours int    `yaml:"prune_interval_hours"`
}

type SimConfig struct {
	Script string `yaml:"script"`
}

// Load starts from defaults, overlays path (if non-empty) and then
// environment overrides, and validates the result. Because defaults are
// applied first, an explicit 0 in the file or environment is kept.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaults() Config {
	files := service.DefaultFiles()
	def := service.DefaultTiming()
	return Config{
		Storage: StorageConfig{
			Root:        "./data/sd",
			Credentials: files.Credentials,
			BootCounter: files.BootCounter,
			AuditLog:    files.AuditLog,
		},
		Timing: TimingConfig{
			CooldownMS:    toMS(def.Cooldown),
			HoldPhaseMS:   toMS(def.HoldPhase),
			MaxUnlockMS:   toMS(def.MaxUnlock),
			StrongPulseMS: toMS(def.StrongPulse),
			DeniedHoldMS:  toMS(def.DeniedHold),
			LogSettleMS:   toMS(def.LogSettle),
			ReadTimeoutMS: toMS(def.ReadTimeout),
			LoopDelayMS:   toMS(def.LoopDelay),
			IgnoreDelayMS: toMS(def.IgnoreDelay),
		},
		Indicator: IndicatorConfig{Intensity: int(service.DefaultIntensity)},
		Journal: JournalConfig{
			RetentionDays:      90, // 0 disables pruning
			PruneIntervalHours: 6,
		},
	}
}

func (c *Config) applyEnv() {
	c.Storage.Root = getenvDefault("PORTUNUS_STORAGE_ROOT", c.Storage.Root)
	c.HTTPAddr = getenvDefault("PORTUNUS_HTTP_ADDR", c.HTTPAddr)
	c.GRPCAddr = getenvDefault("PORTUNUS_GRPC_ADDR", c.GRPCAddr)

	c.Journal.Path = getenvDefault("PORTUNUS_JOURNAL_PATH", c.Journal.Path)
	c.Journal.RetentionDays = getenvInt("PORTUNUS_JOURNAL_RETENTION_DAYS", c.Journal.RetentionDays)
	c.Journal.PruneIntervalHours = getenvInt("PORTUNUS_PRUNE_INTERVAL_HOURS", c.Journal.PruneIntervalHours)

	c.Indicator.Intensity = getenvInt("PORTUNUS_LED_INTENSITY", c.Indicator.Intensity)
	c.Sim.Script = getenvDefault("PORTUNUS_SIM_SCRIPT", c.Sim.Script)

	t := &c.Timing
	t.CooldownMS = getenvInt("PORTUNUS_COOLDOWN_MS", t.CooldownMS)
	t.HoldPhaseMS = getenvInt("PORTUNUS_HOLD_PHASE_MS", t.HoldPhaseMS)
	t.MaxUnlockMS = getenvInt("PORTUNUS_MAX_UNLOCK_MS", t.MaxUnlockMS)
	t.StrongPulseMS = getenvInt("PORTUNUS_STRONG_PULSE_MS", t.StrongPulseMS)
	t.DeniedHoldMS = getenvInt("PORTUNUS_DENIED_HOLD_MS", t.DeniedHoldMS)
	t.LogSettleMS = getenvInt("PORTUNUS_LOG_SETTLE_MS", t.LogSettleMS)
	t.ReadTimeoutMS = getenvInt("PORTUNUS_READ_TIMEOUT_MS", t.ReadTimeoutMS)
	t.LoopDelayMS = getenvInt("PORTUNUS_LOOP_DELAY_MS", t.LoopDelayMS)
	t.IgnoreDelayMS = getenvInt("PORTUNUS_IGNORE_DELAY_MS", t.IgnoreDelayMS)
}

func (c *Config) validate() error {
	if c.Storage.Root == "" {
		return errors.New("storage.root is required")
	}
	if c.Indicator.Intensity < 1 || c.Indicator.Intensity > 255 {
		return fmt.Errorf("indicator.intensity must be 1-255, got %d", c.Indicator.Intensity)
	}
	if err := c.Timing.validate(); err != nil {
		return err
	}
	if c.Journal.RetentionDays < 0 || c.Journal.PruneIntervalHours < 0 {
		return errors.New("journal retention and prune interval must not be negative")
	}
	for _, name := range []string{c.Storage.Credentials, c.Storage.BootCounter, c.Storage.AuditLog} {
		if strings.TrimPrefix(name, "/") == "" {
			return errors.New("storage file names are required")
		}
		if strings.ContainsAny(strings.TrimPrefix(name, "/"), `/\`) {
			return fmt.Errorf("storage file %q must sit at the volume root", name)
		}
	}
	return nil
}

// validate requires the actuation and unlock windows to be positive. The
// settle, read and loop delays may be 0.
func (t TimingConfig) validate() error {
	for _, f := range []struct {
		key string
		v   int
		min int
	}{
		{"timing.cooldown_ms", t.CooldownMS, 1},
		{"timing.hold_phase_ms", t.HoldPhaseMS, 1},
		{"timing.max_unlock_ms", t.MaxUnlockMS, 1},
		{"timing.strong_pulse_ms", t.StrongPulseMS, 1},
		{"timing.denied_hold_ms", t.DeniedHoldMS, 1},
		{"timing.log_settle_ms", t.LogSettleMS, 0},
		{"timing.read_timeout_ms", t.ReadTimeoutMS, 0},
		{"timing.loop_delay_ms", t.LoopDelayMS, 0},
		{"timing.ignore_delay_ms", t.IgnoreDelayMS, 0},
	} {
		if f.v < f.min {
			return fmt.Errorf("%s must be at least %d, got %d", f.key, f.min, f.v)
		}
	}
	if t.HoldPhaseMS > t.MaxUnlockMS {
		return fmt.Errorf("timing.hold_phase_ms (%d) exceeds timing.max_unlock_ms (%d)",
			t.HoldPhaseMS, t.MaxUnlockMS)
	}
	return nil
}

// ServiceTiming converts the millisecond settings for the controller.
func (t TimingConfig) ServiceTiming() service.Timing {
	return service.Timing{
		Cooldown:    ms(t.CooldownMS),
		HoldPhase:   ms(t.HoldPhaseMS),
		MaxUnlock:   ms(t.MaxUnlockMS),
		StrongPulse: ms(t.StrongPulseMS),
		DeniedHold:  ms(t.DeniedHoldMS),
		LogSettle:   ms(t.LogSettleMS),
		ReadTimeout: ms(t.ReadTimeoutMS),
		LoopDelay:   ms(t.LoopDelayMS),
		IgnoreDelay: ms(t.IgnoreDelayMS),
	}
}

// Files returns the storage file names for boot.
func (s StorageConfig) Files() service.Files {
	return service.Files{
		Credentials: s.Credentials,
		BootCounter: s.BootCounter,
		AuditLog:    s.AuditLog,
	}
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func toMS(d time.Duration) int { return int(d / time.Millisecond) }

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
