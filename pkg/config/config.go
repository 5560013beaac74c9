// Package config holds the settings of the memkit binary. Values come from a
// YAML file, then from .env files and MEMKIT_* environment variables, then from
// command-line flags, each layer overriding the previous one.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "MEMKIT_"

type Storage struct {
	// Base is where the emulated address space starts.
	Base uint64 `yaml:"base"`
	// Capacity is its size in bytes.
	Capacity uint64 `yaml:"capacity"`
}

type Config struct {
	// Seed fixes the random generator. Nil draws one from the OS.
	Seed *uint64 `yaml:"seed,omitempty"`

	Network string `yaml:"network"`
	Listen  string `yaml:"listen"`
	// Remote is a memwire server used by peek and poke instead of a pid.
	Remote string `yaml:"remote,omitempty"`
	Pid    int    `yaml:"pid,omitempty"`

	Storage  Storage `yaml:"storage"`
	LogLevel string  `yaml:"log_level"`
}

func Default() Config {
	return Config{
		Network:  "tcp",
		Listen:   "127.0.0.1:7447",
		Storage:  Storage{Base: 0x10000000, Capacity: 16 << 20},
		LogLevel: "info",
	}
}

// Load builds a Config from the YAML file at path (skipped when empty) and the
// environment. envFiles are loaded with godotenv first; with none given, a
// .env in the working directory is used if present. Variables already set in
// the process environment win over .env files.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		if err := decode(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	if err := loadEnvFiles(envFiles); err != nil {
		return cfg, err
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func decode(raw []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	err := dec.Decode(cfg)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *uint64) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		n, err := strconv.ParseUint(v, 0, 64)
		if err != nil {
			return fmt.Errorf("config: %s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
		return nil
	}

	str("NETWORK", &c.Network)
	str("LISTEN", &c.Listen)
	str("REMOTE", &c.Remote)
	str("LOG_LEVEL", &c.LogLevel)

	if _, ok := lookup(EnvPrefix + "SEED"); ok {
		var seed uint64
		if err := num("SEED", &seed); err != nil {
			return err
		}
		c.Seed = &seed
	}
	if err := num("STORAGE_BASE", &c.Storage.Base); err != nil {
		return err
	}
	if err := num("STORAGE_CAPACITY", &c.Storage.Capacity); err != nil {
		return err
	}
	if v, ok := lookup(EnvPrefix + "PID"); ok {
		pid, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %sPID: %w", EnvPrefix, err)
		}
		c.Pid = pid
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	if c.Storage.Capacity == 0 {
		return errors.New("config: storage.capacity must be positive")
	}
	if c.Storage.Base == 0 {
		return errors.New("config: storage.base must not be null")
	}
	if c.Pid < 0 {
		return fmt.Errorf("config: pid %d is negative", c.Pid)
	}
	return nil
}

// Level returns the parsed log level. Call Validate first.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Marshal renders c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
