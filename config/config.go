// Package config loads direncode's optional configuration file
// and resolves the location of the encoder.
package config

import (
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/bobg/direncode/encoder/hb"
	"github.com/bobg/direncode/prefs"
)

// ErrEncoderUnresolved means no encoder location was given or found.
var ErrEncoderUnresolved = errors.New("encoder location unknown")

// EncoderNames are the binaries looked for in $PATH when no encoder location is configured.
var EncoderNames = []string{"HandBrakeCLI", "hbencode"}

// Config is the contents of a direncode.toml file.
type Config struct {
	PrefsFile     string  `toml:"prefs_file"`
	SuppressRetry bool    `toml:"suppress_retry"`
	Encoder       Encoder `toml:"encoder"`
	Watch         Watch   `toml:"watch"`

	// Journal is passed to journal.Create.
	// Its "type" key selects the journal implementation;
	// the other keys depend on the type.
	Journal map[string]interface{} `toml:"journal"`
}

type Encoder struct {
	Path  string  `toml:"path"`
	Extra *string `toml:"extra"`
}

type Watch struct {
	Interval Duration `toml:"interval"`
}

// Duration is a time.Duration written as a string, like "1s", in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultPath is where the config file is looked for when no other location is given.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "finding user config dir")
	}
	return filepath.Join(dir, "direncode", "direncode.toml"), nil
}

// Default is the configuration in effect when there is no config file.
func Default() *Config {
	cfg := new(Config)
	cfg.applyDefaults()
	return cfg
}

// Load reads the config file at path.
// If the file does not exist and mustExist is false,
// the result is Default().
func Load(path string, mustExist bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !mustExist {
		return Default(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %s", path)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "validating config file %s", path)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Encoder.Extra == nil {
		extra := hb.DefaultExtra
		c.Encoder.Extra = &extra
	}
	if c.Watch.Interval.Duration == 0 {
		c.Watch.Interval.Duration = time.Second
	}
	if c.PrefsFile == "" {
		if path, err := prefs.DefaultPath(); err == nil {
			c.PrefsFile = path
		}
	}
}

// Validate checks c for errors.
func (c *Config) Validate() error {
	if c.Watch.Interval.Duration < 0 {
		return errors.Errorf("watch interval %s is negative", c.Watch.Interval.Duration)
	}
	if len(c.Journal) > 0 {
		if typ, _ := c.Journal["type"].(string); typ == "" {
			return errors.New(`journal section missing "type"`)
		}
	}
	return nil
}

// JournalType is the configured journal type, or "" for none.
func (c *Config) JournalType() string {
	typ, _ := c.Journal["type"].(string)
	return typ
}

// ResolveEncoder decides where the encoder binary is.
// In order of preference, it is
// flagPath (from the command line),
// the encoder path in cfg,
// the encoder path saved in p,
// or the first of EncoderNames found by lookPath.
// (If lookPath is nil, exec.LookPath is used.)
//
// A location found anywhere but p is saved in p,
// and p is written if it changed,
// unless the preferences file cannot represent it (see prefs.ErrUnrepresentable).
// If nothing is found the error is ErrEncoderUnresolved.
func ResolveEncoder(flagPath string, cfg *Config, p *prefs.Store, lookPath func(string) (string, error)) (string, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	path := flagPath
	if path == "" {
		path = cfg.Encoder.Path
	}
	if path == "" {
		path, _ = p.Get(prefs.EncoderPathKey)
	}
	if path == "" {
		for _, name := range EncoderNames {
			if found, err := lookPath(name); err == nil {
				path = found
				break
			}
		}
	}
	if path == "" {
		return "", ErrEncoderUnresolved
	}

	if old, _ := p.Get(prefs.EncoderPathKey); old != path {
		err := p.Set(prefs.EncoderPathKey, path)
		if errors.Is(err, prefs.ErrUnrepresentable) {
			log.Printf("ERROR not saving encoder path: %s", err)
			return path, nil
		}
		if err != nil {
			return "", errors.Wrap(err, "storing encoder path")
		}
		if err := p.Save(); err != nil {
			return "", errors.Wrapf(err, "saving %s", p.Path())
		}
	}

	return path, nil
}
