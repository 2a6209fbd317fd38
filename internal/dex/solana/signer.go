package solana

import (
	"context"
	"fmt"

	solana "github.com/gagliardetto/solana-go"
)

// KeypairSigner signs transactions with a locally held private key.
type KeypairSigner struct {
	Key solana.PrivateKey
}

// NewKeypairSigner wraps key.
func NewKeypairSigner(key solana.PrivateKey) *KeypairSigner {
	return &KeypairSigner{Key: key}
}

// PublicKey returns the signing account.
func (s *KeypairSigner) PublicKey() solana.PublicKey { return s.Key.PublicKey() }

// SignAll signs every transaction in place. It stops at the first transaction
// that requires a signer other than this key.
func (s *KeypairSigner) SignAll(ctx context.Context, txs []*solana.Transaction) ([]*solana.Transaction, error) {
	owner := s.Key.PublicKey()
	for i, tx := range txs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
			if key.Equals(owner) {
				return &s.Key
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("sign tx %d: %w", i, err)
		}
	}
	return txs, nil
}
