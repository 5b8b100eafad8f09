// Package config loads foxhuntctl settings from defaults, an optional YAML
// file and FOXHUNT_* environment variables, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"foxhunt/internal/farmer"
	"foxhunt/internal/fox"
)

const EnvPrefix = "FOXHUNT_"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// like hostname_port, but port 0 asks the kernel for a free port
	err := v.RegisterValidation("listen_addr", func(fl validator.FieldLevel) bool {
		_, port, err := net.SplitHostPort(fl.Field().String())
		if err != nil {
			return false
		}
		n, err := strconv.Atoi(port)
		return err == nil && n >= 0 && n <= 65535
	})
	if err != nil {
		panic(fmt.Sprintf("config: register listen_addr validation: %v", err))
	}
	return v
}

type Config struct {
	TrackSize       int    `yaml:"track_size" json:"track_size" validate:"min=2"`
	TrialsPerWorker int    `yaml:"trials_per_worker" json:"trials_per_worker" validate:"min=1"`
	Workers         int    `yaml:"workers" json:"workers" validate:"min=1"`
	StepCap         int    `yaml:"step_cap" json:"step_cap" validate:"min=0"`
	Seed            int64  `yaml:"seed" json:"seed"`
	Farmer          string `yaml:"farmer" json:"farmer" validate:"required"`
	Fox             string `yaml:"fox" json:"fox" validate:"required"`

	Store   StoreConfig   `yaml:"store" json:"store"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
	Sweep   SweepConfig   `yaml:"sweep" json:"sweep"`
}

type StoreConfig struct {
	// Kind is memory or sqlite; empty picks the build default.
	Kind string `yaml:"kind" json:"kind" validate:"omitempty,oneof=memory sqlite"`
	Path string `yaml:"path" json:"path" validate:"required_if=Kind sqlite"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" json:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" json:"format" validate:"omitempty,oneof=json console"`
}

type MetricsConfig struct {
	// Addr enables the /metrics listener when set, e.g. ":9090".
	Addr string `yaml:"addr" json:"addr" validate:"omitempty,listen_addr"`
}

type SweepConfig struct {
	From int `yaml:"from" json:"from" validate:"min=2"`
	To   int `yaml:"to" json:"to" validate:"gtefield=From"`
	Step int `yaml:"step" json:"step" validate:"min=1"`
}

func Default() *Config {
	return &Config{
		TrackSize:       10,
		TrialsPerWorker: 10000,
		Workers:         runtime.NumCPU(),
		Farmer:          farmer.OptimalSweepName,
		Fox:             fox.RandomAdjacentName,
		Store: StoreConfig{
			Path: "foxhunt.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Sweep: SweepConfig{
			From: 3,
			To:   20,
			Step: 1,
		},
	}
}

// Load reads defaults, overlays the YAML file at path (skipped when path is
// empty) and then the environment. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := decodeYAML(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overlays FOXHUNT_* variables. Numeric variables that do not parse
// are reported rather than ignored.
func (c *Config) ApplyEnv() error {
	ints := []struct {
		key string
		dst *int
	}{
		{"TRACK_SIZE", &c.TrackSize},
		{"TRIALS_PER_WORKER", &c.TrialsPerWorker},
		{"WORKERS", &c.Workers},
		{"STEP_CAP", &c.StepCap},
	}
	for _, item := range ints {
		v, ok := lookup(item.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, item.key, err)
		}
		*item.dst = n
	}
	if v, ok := lookup("SEED"); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sSEED: %w", EnvPrefix, err)
		}
		c.Seed = seed
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"FARMER", &c.Farmer},
		{"FOX", &c.Fox},
		{"STORE", &c.Store.Kind},
		{"DB_PATH", &c.Store.Path},
		{"LOG_LEVEL", &c.Logging.Level},
		{"LOG_FORMAT", &c.Logging.Format},
		{"METRICS_ADDR", &c.Metrics.Addr},
	}
	for _, item := range strs {
		if v, ok := lookup(item.key); ok {
			*item.dst = v
		}
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += fmt.Sprintf(" (%s)", fe.Param())
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
