package sol

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/nft-bots/go-marketplace/sol/metaplex"
	"github.com/nft-bots/go-marketplace/types"
)

// MintAccountSize is the spl-token mint state layout size.
const MintAccountSize = 82

type MintParams struct {
	Name   string
	Symbol string
	URI    string

	// Creator receives the single minted unit.
	Creator solana.PublicKey
	// Payer funds the accounts and holds mint, freeze and update
	// authority.
	Payer solana.PublicKey
	// Mint is the freshly generated mint account.
	Mint solana.PublicKey
}

// BuildMintInstructions assembles the six-instruction mint transaction:
// create mint account, initialize mint (0 decimals), create the
// creator's associated token account, mint exactly 1 unit, create
// metadata, create master edition (max supply 0). rentLamports is the
// live rent-exemption minimum for MintAccountSize.
func BuildMintInstructions(p MintParams, rentLamports uint64) ([]solana.Instruction, error) {
	tokenAccount, _, err := solana.FindAssociatedTokenAddress(p.Creator, p.Mint)
	if err != nil {
		return nil, fmt.Errorf("%w: token account: %v", types.ErrDerivationFailed, err)
	}

	metadataAccount, _, err := metaplex.FindMetadata(p.Mint)
	if err != nil {
		return nil, fmt.Errorf("%w: metadata: %v", types.ErrDerivationFailed, err)
	}

	masterEdition, _, err := metaplex.FindMasterEdition(p.Mint)
	if err != nil {
		return nil, fmt.Errorf("%w: master edition: %v", types.ErrDerivationFailed, err)
	}

	createMintInst := system.NewCreateAccountInstruction(
		rentLamports,
		MintAccountSize,
		solana.TokenProgramID,
		p.Payer,
		p.Mint,
	).Build()

	initMintInst := token.NewInitializeMintInstruction(
		0,
		p.Payer,
		p.Payer,
		p.Mint,
		solana.SysVarRentPubkey,
	).Build()

	createAtaInst := associatedtokenaccount.NewCreateInstruction(
		p.Payer,
		p.Creator,
		p.Mint,
	).Build()

	mintToInst := token.NewMintToInstruction(
		1,
		p.Mint,
		tokenAccount,
		p.Payer,
		nil,
	).Build()

	createMetadataInst, err := metaplex.NewCreateMetadataAccountV3Instruction(metaplex.CreateMetadataAccountV3Param{
		Metadata:        metadataAccount,
		Mint:            p.Mint,
		MintAuthority:   p.Payer,
		Payer:           p.Payer,
		UpdateAuthority: p.Payer,
		Data: metaplex.DataV2{
			Name:                 p.Name,
			Symbol:               p.Symbol,
			Uri:                  p.URI,
			SellerFeeBasisPoints: 0,
		},
		IsMutable: true,
	})
	if err != nil {
		return nil, err
	}

	maxSupply := uint64(0)
	createEditionInst, err := metaplex.NewCreateMasterEditionV3Instruction(metaplex.CreateMasterEditionV3Param{
		Edition:         masterEdition,
		Mint:            p.Mint,
		UpdateAuthority: p.Payer,
		MintAuthority:   p.Payer,
		Payer:           p.Payer,
		Metadata:        metadataAccount,
		MaxSupply:       &maxSupply,
	})
	if err != nil {
		return nil, err
	}

	return []solana.Instruction{
		createMintInst,
		initMintInst,
		createAtaInst,
		mintToInst,
		createMetadataInst,
		createEditionInst,
	}, nil
}

// SendMint generates a mint keypair, builds the mint transaction against
// live rent figures and submits it signed by the service key and the
// mint key. The ledger applies the whole batch or none of it.
func SendMint(
	ctx context.Context,
	url string,
	name, symbol, uri string,
	creator solana.PublicKey,
	serviceKey solana.PrivateKey,
	recentBlockHash solana.Hash,
) (solana.Signature, solana.PublicKey, error) {
	mintKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, err
	}
	mint := mintKey.PublicKey()
	payer := serviceKey.PublicKey()

	cli := rpc.New(url)
	rentLamports, err := cli.GetMinimumBalanceForRentExemption(ctx, MintAccountSize, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, fmt.Errorf("%w: rent exemption: %v", types.ErrLedgerQueryFailed, err)
	}

	instructions, err := BuildMintInstructions(MintParams{
		Name:    name,
		Symbol:  symbol,
		URI:     uri,
		Creator: creator,
		Payer:   payer,
		Mint:    mint,
	}, rentLamports)
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, err
	}

	if recentBlockHash.IsZero() {
		recentBlock, err := cli.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
		if err != nil {
			return solana.Signature{}, solana.PublicKey{}, fmt.Errorf("%w: blockhash: %v", types.ErrLedgerQueryFailed, err)
		}
		recentBlockHash = recentBlock.Value.Blockhash
	}

	tx, err := solana.NewTransaction(instructions, recentBlockHash, solana.TransactionPayer(payer))
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, err
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payer) {
			return &serviceKey
		} else if key.Equals(mint) {
			return &mintKey
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, err
	}

	signature, err := cli.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{SkipPreflight: false})
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, err
	}
	return signature, mint, nil
}
