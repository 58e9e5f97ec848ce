package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"bountychain/crypto"
	nativecommon "bountychain/native/common"
)

func TestLoadCreatesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, defaultDataDir, cfg.DataDir)
	require.Equal(t, defaultEnv, cfg.Env)
	require.Equal(t, filepath.Join(dir, "program.json"), cfg.ProgramKeypairPath)

	acc, err := crypto.LoadKeypair(cfg.ProgramKeypairPath)
	require.NoError(t, err)
	require.Equal(t, acc.PublicKey.ToBase58(), cfg.ProgramID)
	require.Equal(t, acc.PublicKey, cfg.ProgramKey())

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.ProgramID, reloaded.ProgramID)
}

func TestLoadParsesSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	program := crypto.GenerateAccount().PublicKey.ToBase58()
	contents := fmt.Sprintf(`ProgramID = "%s"
DataDir = "./data"
GenesisFile = "genesis.yaml"
Env = "staging"
LogFile = "./logs/bounty.log"
LogLevel = "debug"

[pauses]
Bounty = true
`, program)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, program, cfg.ProgramID)
	require.Equal(t, "./data", cfg.DataDir)
	require.Equal(t, "genesis.yaml", cfg.GenesisFile)
	require.Equal(t, "staging", cfg.Env)
	require.Equal(t, "./logs/bounty.log", cfg.LogFile)
	require.True(t, cfg.Pauses.Bounty)
	require.True(t, cfg.Pauses.PauseSet().IsPaused(nativecommon.ModuleBounty))

	_, err = os.Stat(filepath.Join(dir, "program.json"))
	require.True(t, os.IsNotExist(err), "explicit ProgramID must not generate a keypair")
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("ValidatorKey = \"abc\"\n"), 0o644))
	_, err := Load(path)
	require.ErrorContains(t, err, "ValidatorKey")
}

func TestLoadRejectsBadProgramID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("ProgramID = \"not-base58!\"\n"), 0o644))
	_, err := Load(path)
	require.ErrorIs(t, err, crypto.ErrInvalidPublicKey)
}

func TestValidate(t *testing.T) {
	program := crypto.GenerateAccount().PublicKey.ToBase58()

	cfg := &Config{ProgramID: program, DataDir: "d", LogLevel: "warn"}
	require.NoError(t, cfg.Validate())

	cfg = &Config{ProgramID: program, DataDir: " "}
	require.ErrorContains(t, cfg.Validate(), "DataDir")

	cfg = &Config{ProgramID: program, DataDir: "d", LogLevel: "loud"}
	require.ErrorContains(t, cfg.Validate(), "LogLevel")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, level)

	level, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, level)

	_, err = ParseLevel("verbose")
	require.Error(t, err)
}
