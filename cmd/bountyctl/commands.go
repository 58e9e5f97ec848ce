package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/holiman/uint256"

	"bountychain/core/genesis"
	"bountychain/crypto"
	"bountychain/native/bounty"
)

func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", defaultConfig, "path to the bounty config file")
	return fs, configPath
}

func parseFlags(fs *flag.FlagSet, args []string, stderr io.Writer) bool {
	if err := fs.Parse(args); err != nil {
		return false
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(stderr, "Error: unexpected positional arguments")
		return false
	}
	return true
}

func printError(w io.Writer, msg string) int {
	fmt.Fprintf(w, "Error: %s\n", msg)
	return 1
}

func printFailure(w io.Writer, err error) int {
	kind := bounty.Kind(err)
	if kind == "internal" {
		return printError(w, err.Error())
	}
	fmt.Fprintf(w, "Error [%s]: %v\n", kind, err)
	return 1
}

func writeJSON(w io.Writer, value interface{}) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return 1
	}
	return 0
}

func requireKey(flagName, value string) (common.PublicKey, error) {
	if strings.TrimSpace(value) == "" {
		return common.PublicKey{}, fmt.Errorf("--%s is required", flagName)
	}
	key, err := crypto.ParsePublicKey(value)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("--%s: %v", flagName, err)
	}
	return key, nil
}

func requireAmount(value string) (uint64, error) {
	if strings.TrimSpace(value) == "" {
		return 0, errors.New("--amount is required")
	}
	amount, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, errors.New("--amount must be an unsigned 64-bit integer")
	}
	return amount, nil
}

func loadSigner(path string) (common.PublicKey, error) {
	if strings.TrimSpace(path) == "" {
		return common.PublicKey{}, errors.New("--keypair is required")
	}
	acc, err := crypto.LoadKeypair(path)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("load keypair: %v", err)
	}
	return acc.PublicKey, nil
}

func runKeygen(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("out", "", "output path for the keypair file")
	force := fs.Bool("force", false, "overwrite an existing keypair file")
	if !parseFlags(fs, args, stderr) {
		return 1
	}
	if *out == "" {
		return printError(stderr, "--out is required")
	}
	if !*force {
		if _, err := os.Stat(*out); err == nil {
			return printError(stderr, fmt.Sprintf("keypair file %s already exists (use --force to overwrite)", *out))
		}
	}
	acc := crypto.GenerateAccount()
	if err := crypto.SaveKeypair(*out, acc); err != nil {
		return printError(stderr, err.Error())
	}
	return writeJSON(stdout, map[string]string{
		"publicKey": acc.PublicKey.ToBase58(),
		"keypair":   *out,
	})
}

func runGenesis(args []string, stdout, stderr io.Writer) int {
	fs, configPath := newFlagSet("genesis", stderr)
	file := fs.String("file", "", "genesis YAML file (defaults to GenesisFile from the config)")
	if !parseFlags(fs, args, stderr) {
		return 1
	}
	env, err := openEnv(*configPath)
	if err != nil {
		return printError(stderr, err.Error())
	}
	defer env.Close()

	path := *file
	if path == "" {
		path = env.cfg.GenesisFile
	}
	if path == "" {
		return printError(stderr, "--file is required when the config has no GenesisFile")
	}
	spec, err := genesis.LoadSpec(path)
	if err != nil {
		return printError(stderr, err.Error())
	}
	applied, err := env.proc.ApplyGenesis(spec)
	if err != nil {
		return printError(stderr, err.Error())
	}
	return writeJSON(stdout, map[string]int{"allocations": applied})
}

func runMint(args []string, stdout, stderr io.Writer) int {
	fs, configPath := newFlagSet("mint", stderr)
	var owner, mint, amountStr string
	fs.StringVar(&owner, "owner", "", "recipient base58 address")
	fs.StringVar(&mint, "mint", "", "token mint base58 address")
	fs.StringVar(&amountStr, "amount", "", "amount in base units")
	if !parseFlags(fs, args, stderr) {
		return 1
	}
	ownerKey, err := requireKey("owner", owner)
	if err != nil {
		return printError(stderr, err.Error())
	}
	mintKey, err := requireKey("mint", mint)
	if err != nil {
		return printError(stderr, err.Error())
	}
	if strings.TrimSpace(amountStr) == "" {
		return printError(stderr, "--amount is required")
	}
	amount, err := uint256.FromDecimal(strings.TrimSpace(amountStr))
	if err != nil {
		return printError(stderr, "--amount must be a non-negative integer")
	}
	env, err := openEnv(*configPath)
	if err != nil {
		return printError(stderr, err.Error())
	}
	defer env.Close()
	if err := env.proc.Mint(ownerKey, mintKey, amount); err != nil {
		return printError(stderr, err.Error())
	}
	return printBalance(env, stdout, stderr, ownerKey, mintKey)
}

func runBalance(args []string, stdout, stderr io.Writer) int {
	fs, configPath := newFlagSet("balance", stderr)
	var owner, mint string
	fs.StringVar(&owner, "owner", "", "owner base58 address")
	fs.StringVar(&mint, "mint", "", "token mint base58 address")
	if !parseFlags(fs, args, stderr) {
		return 1
	}
	ownerKey, err := requireKey("owner", owner)
	if err != nil {
		return printError(stderr, err.Error())
	}
	mintKey, err := requireKey("mint", mint)
	if err != nil {
		return printError(stderr, err.Error())
	}
	env, err := openEnv(*configPath)
	if err != nil {
		return printError(stderr, err.Error())
	}
	defer env.Close()
	return printBalance(env, stdout, stderr, ownerKey, mintKey)
}

func printBalance(env *cliEnv, stdout, stderr io.Writer, owner, mint common.PublicKey) int {
	bal, err := env.proc.Balance(owner, mint)
	if err != nil {
		return printError(stderr, err.Error())
	}
	return writeJSON(stdout, map[string]string{
		"owner":   owner.ToBase58(),
		"mint":    mint.ToBase58(),
		"balance": bal.Dec(),
	})
}

func runCreate(args []string, stdout, stderr io.Writer) int {
	fs, configPath := newFlagSet("create", stderr)
	var (
		keypair     string
		mint        string
		paymentMint string
		name        string
		description string
		amountStr   string
		bountyType  string
		voteType    string
	)
	fs.StringVar(&keypair, "keypair", "", "issuer keypair file")
	fs.StringVar(&mint, "mint", "", "mint identifying the bounty")
	fs.StringVar(&paymentMint, "payment-mint", "", "token mint the reward is paid in")
	fs.StringVar(&name, "name", "", "bounty name (max 20 bytes)")
	fs.StringVar(&description, "description", "", "bounty description (max 200 bytes)")
	fs.StringVar(&amountStr, "amount", "", "initial deposit in base units")
	fs.StringVar(&bountyType, "type", "solo", "bounty type (solo or open)")
	fs.StringVar(&voteType, "vote", "poidh", "vote type (poidh or generic)")
	if !parseFlags(fs, args, stderr) {
		return 1
	}
	issuer, err := loadSigner(keypair)
	if err != nil {
		return printError(stderr, err.Error())
	}
	mintKey, err := requireKey("mint", mint)
	if err != nil {
		return printError(stderr, err.Error())
	}
	paymentKey, err := requireKey("payment-mint", paymentMint)
	if err != nil {
		return printError(stderr, err.Error())
	}
	amount, err := requireAmount(amountStr)
	if err != nil {
		return printError(stderr, err.Error())
	}
	bt, err := bounty.ParseBountyTypeName(bountyType)
	if err != nil {
		return printError(stderr, "--type must be solo or open")
	}
	vt, err := bounty.ParseVoteTypeName(voteType)
	if err != nil {
		return printError(stderr, "--vote must be poidh or generic")
	}

	env, err := openEnv(*configPath)
	if err != nil {
		return printError(stderr, err.Error())
	}
	defer env.Close()
	created, err := env.proc.Create(issuer, bounty.CreateParams{
		Mint:        mintKey,
		PaymentMint: paymentKey,
		Name:        name,
		Description: description,
		Amount:      amount,
		BountyType:  uint8(bt),
		VoteType:    uint8(vt),
	})
	if err != nil {
		return printFailure(stderr, err)
	}
	return printBounty(env, stdout, stderr, created)
}

func bountyKeyFlags(fs *flag.FlagSet) (*string, *string) {
	authority := fs.String("authority", "", "bounty authority base58 address")
	mint := fs.String("mint", "", "bounty mint base58 address")
	return authority, mint
}

func parseBountyKey(authority, mint string) (bounty.Key, error) {
	authorityKey, err := requireKey("authority", authority)
	if err != nil {
		return bounty.Key{}, err
	}
	mintKey, err := requireKey("mint", mint)
	if err != nil {
		return bounty.Key{}, err
	}
	return bounty.Key{Authority: authorityKey, Mint: mintKey}, nil
}

func runJoin(args []string, stdout, stderr io.Writer) int {
	fs, configPath := newFlagSet("join", stderr)
	authority, mint := bountyKeyFlags(fs)
	keypair := fs.String("keypair", "", "participant keypair file")
	amountStr := fs.String("amount", "", "contribution in base units")
	if !parseFlags(fs, args, stderr) {
		return 1
	}
	participant, err := loadSigner(*keypair)
	if err != nil {
		return printError(stderr, err.Error())
	}
	key, err := parseBountyKey(*authority, *mint)
	if err != nil {
		return printError(stderr, err.Error())
	}
	amount, err := requireAmount(*amountStr)
	if err != nil {
		return printError(stderr, err.Error())
	}
	env, err := openEnv(*configPath)
	if err != nil {
		return printError(stderr, err.Error())
	}
	defer env.Close()
	updated, err := env.proc.Join(participant, key, amount)
	if err != nil {
		return printFailure(stderr, err)
	}
	return printBounty(env, stdout, stderr, updated)
}

func runWithdraw(args []string, stdout, stderr io.Writer) int {
	fs, configPath := newFlagSet("withdraw", stderr)
	authority, mint := bountyKeyFlags(fs)
	keypair := fs.String("keypair", "", "participant keypair file")
	if !parseFlags(fs, args, stderr) {
		return 1
	}
	participant, err := loadSigner(*keypair)
	if err != nil {
		return printError(stderr, err.Error())
	}
	key, err := parseBountyKey(*authority, *mint)
	if err != nil {
		return printError(stderr, err.Error())
	}
	env, err := openEnv(*configPath)
	if err != nil {
		return printError(stderr, err.Error())
	}
	defer env.Close()
	updated, err := env.proc.Withdraw(participant, key)
	if err != nil {
		return printFailure(stderr, err)
	}
	return printBounty(env, stdout, stderr, updated)
}

func runClose(args []string, stdout, stderr io.Writer) int {
	fs, configPath := newFlagSet("close", stderr)
	authority, mint := bountyKeyFlags(fs)
	keypair := fs.String("keypair", "", "authority keypair file")
	if !parseFlags(fs, args, stderr) {
		return 1
	}
	signer, err := loadSigner(*keypair)
	if err != nil {
		return printError(stderr, err.Error())
	}
	if strings.TrimSpace(*authority) == "" {
		*authority = signer.ToBase58()
	}
	key, err := parseBountyKey(*authority, *mint)
	if err != nil {
		return printError(stderr, err.Error())
	}
	env, err := openEnv(*configPath)
	if err != nil {
		return printError(stderr, err.Error())
	}
	defer env.Close()
	refunded, err := env.proc.Close(signer, key)
	if err != nil {
		return printFailure(stderr, err)
	}
	return writeJSON(stdout, map[string]string{
		"bounty":   key.String(),
		"refunded": strconv.FormatUint(refunded, 10),
	})
}

func runGet(args []string, stdout, stderr io.Writer) int {
	fs, configPath := newFlagSet("get", stderr)
	authority, mint := bountyKeyFlags(fs)
	if !parseFlags(fs, args, stderr) {
		return 1
	}
	key, err := parseBountyKey(*authority, *mint)
	if err != nil {
		return printError(stderr, err.Error())
	}
	env, err := openEnv(*configPath)
	if err != nil {
		return printError(stderr, err.Error())
	}
	defer env.Close()
	b, err := env.proc.Get(key)
	if err != nil {
		return printFailure(stderr, err)
	}
	return printBounty(env, stdout, stderr, b)
}
