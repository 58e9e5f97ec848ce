package config

import (
	"fmt"
	"log/slog"
	"strings"

	"bountychain/crypto"
)

// Validate checks the configuration and caches the parsed program identity.
func (c *Config) Validate() error {
	programID, err := crypto.ParsePublicKey(c.ProgramID)
	if err != nil {
		return fmt.Errorf("config: ProgramID: %w", err)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("config: DataDir is empty")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	c.programID = programID
	return nil
}

// ParseLevel maps the configured level name onto a slog level. An empty
// value means info.
func ParseLevel(value string) (slog.Level, error) {
	var level slog.Level
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(trimmed)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: LogLevel %q: %w", value, err)
	}
	return level, nil
}
