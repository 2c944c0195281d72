package sol

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
)

func SendTransfer(
	ctx context.Context,
	url string,
	recipient solana.PublicKey,
	amount uint64,
	privKey solana.PrivateKey,
	recentBlockHash solana.Hash,
) (solana.Signature, error) {
	instruction := system.NewTransferInstruction(amount, privKey.PublicKey(), recipient).Build()

	client := rpc.New(url)
	if recentBlockHash.IsZero() {
		latestBlock, err := client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
		if err != nil {
			return solana.Signature{}, err
		}
		recentBlockHash = latestBlock.Value.Blockhash
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{instruction},
		recentBlockHash,
		solana.TransactionPayer(privKey.PublicKey()),
	)
	if err != nil {
		return solana.Signature{}, err
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		return &privKey
	})
	if err != nil {
		return solana.Signature{}, err
	}

	return client.SendTransaction(ctx, tx)
}
