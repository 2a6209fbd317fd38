package solana

import (
	"errors"
	"os"

	solana "github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
)

// ErrNoKey is returned when no private key is configured.
var ErrNoKey = errors.New("SOLANA_PRIVATE_KEY_BASE58 not set")

// LoadPrivateKeyFromEnv reads SOLANA_PRIVATE_KEY_BASE58, consulting .env first.
func LoadPrivateKeyFromEnv() (solana.PrivateKey, error) {
	_ = godotenv.Load() // best-effort
	return LoadPrivateKey(os.Getenv("SOLANA_PRIVATE_KEY_BASE58"))
}

// LoadPrivateKey decodes a base58 secret key.
func LoadPrivateKey(b58 string) (solana.PrivateKey, error) {
	if b58 == "" {
		return nil, ErrNoKey
	}
	return solana.PrivateKeyFromBase58(b58)
}
