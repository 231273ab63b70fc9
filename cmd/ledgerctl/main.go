// Package main is the entry point for the ledgerctl command line.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/condo-portal/ledger/internal/cli"
)

func main() {
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
