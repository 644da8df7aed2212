package main

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/joho/godotenv"
)

// loadPrivateKey reads PRIVATE_KEY from the environment, loading a local .env
// file first if one exists.
func loadPrivateKey() (*ecdsa.PrivateKey, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	raw := os.Getenv("PRIVATE_KEY")
	if raw == "" {
		return nil, errors.New("PRIVATE_KEY is not set")
	}

	pk, err := crypto.HexToECDSA(strings.TrimPrefix(raw, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return pk, nil
}
