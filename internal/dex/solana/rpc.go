package solana

import (
	"context"
	"fmt"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// ParseCommitment maps a config string to an RPC commitment, defaulting to confirmed.
func ParseCommitment(commit string) rpc.CommitmentType {
	switch commit {
	case "processed":
		return rpc.CommitmentProcessed
	case "finalized":
		return rpc.CommitmentFinalized
	}
	return rpc.CommitmentConfirmed
}

// RPCBroadcaster submits signed transactions and reads balances from a cluster RPC node.
type RPCBroadcaster struct {
	RPC        *rpc.Client
	Commit     rpc.CommitmentType
	MaxRetries uint
}

// NewRPCBroadcaster dials rpcURL lazily; no request is made until first use.
func NewRPCBroadcaster(rpcURL, commit string, maxRetries uint) *RPCBroadcaster {
	return &RPCBroadcaster{
		RPC:        rpc.New(rpcURL),
		Commit:     ParseCommitment(commit),
		MaxRetries: maxRetries,
	}
}

// Broadcast sends tx without preflight simulation and lets the node retry delivery.
func (b *RPCBroadcaster) Broadcast(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	retries := b.MaxRetries
	sig, err := b.RPC.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       true,
		PreflightCommitment: b.Commit,
		MaxRetries:          &retries,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("send transaction: %w", err)
	}
	return sig, nil
}

// NativeBalance returns owner's SOL balance in lamports.
func (b *RPCBroadcaster) NativeBalance(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	out, err := b.RPC.GetBalance(ctx, owner, b.Commit)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return out.Value, nil
}
