package escrow

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/nft-bots/go-marketplace/types"
)

// SendList escrows the seller's NFT: derives the listing and escrow
// accounts for the mint, builds the list instruction and submits it
// signed by the seller. The program rejects the transaction if a listing
// for the mint already occupies its derived address.
func SendList(
	ctx context.Context,
	url string,
	mint solana.PublicKey,
	price uint64,
	sellerKey solana.PrivateKey,
	recentBlockHash solana.Hash,
) (solana.Signature, solana.PublicKey, error) {
	seller := sellerKey.PublicKey()

	listing, _, err := FindListing(mint)
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, fmt.Errorf("%w: listing: %v", types.ErrDerivationFailed, err)
	}

	sellerAta, _, err := solana.FindAssociatedTokenAddress(seller, mint)
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, fmt.Errorf("%w: seller token account: %v", types.ErrDerivationFailed, err)
	}

	escrowAta, _, err := FindEscrowTokenAccount(listing, mint)
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, fmt.Errorf("%w: escrow token account: %v", types.ErrDerivationFailed, err)
	}

	listInst, err := NewListInstruction(CreateListParam{
		Listing:            listing,
		Mint:               mint,
		SellerTokenAccount: sellerAta,
		EscrowTokenAccount: escrowAta,
		Seller:             seller,
		Price:              price,
	})
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, err
	}

	cli := rpc.New(url)
	if recentBlockHash.IsZero() {
		recentBlock, err := cli.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
		if err != nil {
			return solana.Signature{}, solana.PublicKey{}, fmt.Errorf("%w: blockhash: %v", types.ErrLedgerQueryFailed, err)
		}
		recentBlockHash = recentBlock.Value.Blockhash
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{listInst},
		recentBlockHash,
		solana.TransactionPayer(seller),
	)
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, err
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		return &sellerKey
	})
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, err
	}

	signature, err := cli.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{SkipPreflight: false})
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, err
	}
	return signature, listing, nil
}

// SendBuy settles a listing: reads and validates the listing account,
// derives the escrow and buyer token accounts, builds the buy
// instruction and submits it signed by the buyer. The ledger performs
// the currency and token transfers in the same transaction or not at
// all.
func SendBuy(
	ctx context.Context,
	url string,
	listingPubKey solana.PublicKey,
	buyerKey solana.PrivateKey,
	recentBlockHash solana.Hash,
) (solana.Signature, *Listing, error) {
	buyer := buyerKey.PublicKey()

	cli := rpc.New(url)
	account, err := cli.GetAccountInfoWithOpts(ctx, listingPubKey, &rpc.GetAccountInfoOpts{Commitment: rpc.CommitmentConfirmed})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return solana.Signature{}, nil, fmt.Errorf("%w: %s", types.ErrListingNotFound, listingPubKey)
		}
		return solana.Signature{}, nil, fmt.Errorf("%w: listing read: %v", types.ErrLedgerQueryFailed, err)
	}

	listing, err := DecodeListing(account.GetBinary())
	if err != nil {
		return solana.Signature{}, nil, err
	}

	if !listing.IsActive {
		return solana.Signature{}, nil, fmt.Errorf("%w: %s", types.ErrListingNotActive, listingPubKey)
	}

	escrowAta, _, err := FindEscrowTokenAccount(listingPubKey, listing.NFTMint)
	if err != nil {
		return solana.Signature{}, nil, fmt.Errorf("%w: escrow token account: %v", types.ErrDerivationFailed, err)
	}

	buyerAta, _, err := solana.FindAssociatedTokenAddress(buyer, listing.NFTMint)
	if err != nil {
		return solana.Signature{}, nil, fmt.Errorf("%w: buyer token account: %v", types.ErrDerivationFailed, err)
	}

	buyInst, err := NewBuyInstruction(CreateBuyParam{
		Listing:            listingPubKey,
		Mint:               listing.NFTMint,
		EscrowTokenAccount: escrowAta,
		BuyerTokenAccount:  buyerAta,
		Seller:             listing.Seller,
		Buyer:              buyer,
	})
	if err != nil {
		return solana.Signature{}, nil, err
	}

	if recentBlockHash.IsZero() {
		recentBlock, err := cli.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
		if err != nil {
			return solana.Signature{}, nil, fmt.Errorf("%w: blockhash: %v", types.ErrLedgerQueryFailed, err)
		}
		recentBlockHash = recentBlock.Value.Blockhash
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{buyInst},
		recentBlockHash,
		solana.TransactionPayer(buyer),
	)
	if err != nil {
		return solana.Signature{}, nil, err
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		return &buyerKey
	})
	if err != nil {
		return solana.Signature{}, nil, err
	}

	signature, err := cli.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{SkipPreflight: false})
	if err != nil {
		return solana.Signature{}, nil, err
	}
	return signature, listing, nil
}
