package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/blocto/solana-go-sdk/common"

	"bountychain/crypto"
)

const (
	defaultDataDir  = "./bounty-data"
	defaultLogLevel = "info"
	defaultEnv      = "local"
)

type Config struct {
	ProgramID          string `toml:"ProgramID"`
	ProgramKeypairPath string `toml:"ProgramKeypairPath"`
	DataDir            string `toml:"DataDir"`
	GenesisFile        string `toml:"GenesisFile"`
	Env                string `toml:"Env"`
	LogFile            string `toml:"LogFile"`
	LogLevel           string `toml:"LogLevel"`
	Pauses             Pauses `toml:"pauses"`

	programID common.PublicKey
}

// Load loads the configuration from the given path. A missing file is
// replaced by a default configuration with a freshly generated program
// identity.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config file %s has unknown key %s", path, undecoded[0])
	}

	if strings.TrimSpace(cfg.ProgramID) == "" {
		if err := ensureProgram(path, cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ProgramKey returns the parsed program identity. It is only populated after
// a successful Validate.
func (c *Config) ProgramKey() common.PublicKey { return c.programID }

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = defaultDataDir
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = defaultLogLevel
	}
	if strings.TrimSpace(c.Env) == "" {
		c.Env = defaultEnv
	}
}

func ensureProgram(configPath string, cfg *Config) error {
	keypairPath := cfg.ProgramKeypairPath
	if keypairPath == "" {
		keypairPath = defaultProgramKeypairPath(configPath)
	}

	acc, err := crypto.LoadKeypair(keypairPath)
	if errors.Is(err, fs.ErrNotExist) {
		acc = crypto.GenerateAccount()
		if err := crypto.SaveKeypair(keypairPath, acc); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	cfg.ProgramID = acc.PublicKey.ToBase58()
	cfg.ProgramKeypairPath = keypairPath
	return persist(configPath, cfg)
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		DataDir:  defaultDataDir,
		Env:      defaultEnv,
		LogLevel: defaultLogLevel,
	}
	if err := ensureProgram(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

func defaultProgramKeypairPath(configPath string) string {
	dir := filepath.Dir(configPath)
	if dir == "." || dir == "" {
		dir = ""
	}
	return filepath.Join(dir, "program.json")
}
