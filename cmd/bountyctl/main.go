package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	serviceName   = "bountyctl"
	defaultConfig = "./config.toml"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, usage())
		return 1
	}

	switch args[0] {
	case "keygen":
		return runKeygen(args[1:], stdout, stderr)
	case "genesis":
		return runGenesis(args[1:], stdout, stderr)
	case "mint":
		return runMint(args[1:], stdout, stderr)
	case "balance":
		return runBalance(args[1:], stdout, stderr)
	case "create":
		return runCreate(args[1:], stdout, stderr)
	case "join":
		return runJoin(args[1:], stdout, stderr)
	case "withdraw":
		return runWithdraw(args[1:], stdout, stderr)
	case "close":
		return runClose(args[1:], stdout, stderr)
	case "get":
		return runGet(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprintln(stdout, usage())
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		fmt.Fprintln(stderr, usage())
		return 1
	}
}

func usage() string {
	return strings.TrimSpace(`Usage:
  bountyctl <command> [flags]

Commands:
  keygen   Generate a signer keypair file
  genesis  Seed token balances from a YAML allocation file
  mint     Credit tokens to an owner (operator faucet)
  balance  Show an owner's token balance
  create   Create a solo or open bounty
  join     Contribute to an open bounty
  withdraw Take back your share of an open bounty
  close    Close a bounty and refund its custody balance
  get      Show a bounty and its custody balance
`)
}
