package escrow

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/nft-bots/go-marketplace/types"
)

// The ledger executes the transitions below; this model states the exact
// guards so flows and tests can reason about them without a validator.
//
// Uninitialized -> Listed on list, Listed -> Sold on buy. Sold never
// returns to Listed; re-listing a mint is not supported.

type ListingState uint8

const (
	ListingStateUninitialized ListingState = iota
	ListingStateListed
	ListingStateSold
)

func (l *Listing) State() ListingState {
	if l == nil {
		return ListingStateUninitialized
	}
	if l.IsActive {
		return ListingStateListed
	}
	return ListingStateSold
}

// ProcessList models the list transition. The listing account must not
// exist yet (a sold listing still occupies its derived address) and the
// seller must hold exactly the one unit being escrowed.
func ProcessList(existing *Listing, mint, seller solana.PublicKey, price uint64, sellerTokenBalance uint64) (*Listing, error) {
	if existing.State() != ListingStateUninitialized {
		return nil, fmt.Errorf("%w: mint %s", types.ErrListingExists, mint)
	}
	if sellerTokenBalance != 1 {
		return nil, fmt.Errorf("%w: seller holds %d units", types.ErrInsufficientBalance, sellerTokenBalance)
	}

	return &Listing{
		NFTMint:  mint,
		Seller:   seller,
		Price:    price,
		IsActive: true,
	}, nil
}

// Settlement is the atomic effect of a buy: price lamports move from
// buyer to seller and the escrowed unit moves to the buyer, or nothing
// happens at all.
type Settlement struct {
	NFTMint solana.PublicKey
	Seller  solana.PublicKey
	Buyer   solana.PublicKey
	Price   uint64
}

// ProcessBuy models the buy transition. It deactivates the listing
// exactly once; a second buy observes ListingStateSold and fails.
func ProcessBuy(l *Listing, buyer solana.PublicKey, buyerLamports uint64) (*Settlement, error) {
	switch l.State() {
	case ListingStateUninitialized:
		return nil, types.ErrListingNotFound
	case ListingStateSold:
		return nil, fmt.Errorf("%w: mint %s", types.ErrListingNotActive, l.NFTMint)
	}

	if buyerLamports < l.Price {
		return nil, fmt.Errorf("%w: need %d lamports", types.ErrInsufficientBalance, l.Price)
	}

	l.IsActive = false
	return &Settlement{
		NFTMint: l.NFTMint,
		Seller:  l.Seller,
		Buyer:   buyer,
		Price:   l.Price,
	}, nil
}
