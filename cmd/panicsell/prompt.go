package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	solana "github.com/gagliardetto/solana-go"

	"panicsell-go/internal/liquidation"
)

// confirmFunc asks a yes/no question.
type confirmFunc func(title, description string) (bool, error)

// promptSigner asks for one approval per batch before signing, the way a
// browser wallet shows a single approve-all dialog.
type promptSigner struct {
	inner   liquidation.Signer
	confirm confirmFunc // nil approves without asking
}

func (p *promptSigner) PublicKey() solana.PublicKey { return p.inner.PublicKey() }

func (p *promptSigner) SignAll(ctx context.Context, txs []*solana.Transaction) ([]*solana.Transaction, error) {
	if p.confirm != nil {
		ok, err := p.confirm(
			fmt.Sprintf("Approve %d transactions?", len(txs)),
			fmt.Sprintf("Sign with %s", p.inner.PublicKey()),
		)
		if err != nil {
			return nil, fmt.Errorf("prompt: %w", err)
		}
		if !ok {
			return nil, liquidation.ErrRejected
		}
	}
	return p.inner.SignAll(ctx, txs)
}

func huhConfirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Approve").
				Negative("Reject").
				Value(&ok),
		),
	).Run()
	return ok, err
}
