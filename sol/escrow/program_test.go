package escrow

import (
	"errors"
	"testing"

	"github.com/nft-bots/go-marketplace/types"
)

func TestProcessList(t *testing.T) {
	mint := randomKey(t)
	seller := randomKey(t)

	listing, err := ProcessList(nil, mint, seller, 1_500_000_000, 1)
	if err != nil {
		t.Fatal(err)
	}
	if listing.State() != ListingStateListed {
		t.Fatalf("state = %d, want listed", listing.State())
	}
	if listing.NFTMint != mint || listing.Seller != seller || listing.Price != 1_500_000_000 {
		t.Errorf("listing fields wrong: %+v", listing)
	}

	// The derived address is occupied now; a second list must fail.
	if _, err := ProcessList(listing, mint, seller, 2_000_000_000, 1); !errors.Is(err, types.ErrListingExists) {
		t.Errorf("relist err = %v, want ErrListingExists", err)
	}
}

func TestProcessList_RequiresExactlyOneUnit(t *testing.T) {
	mint := randomKey(t)
	seller := randomKey(t)

	for _, balance := range []uint64{0, 2, 100} {
		if _, err := ProcessList(nil, mint, seller, 1, balance); !errors.Is(err, types.ErrInsufficientBalance) {
			t.Errorf("balance %d: err = %v, want ErrInsufficientBalance", balance, err)
		}
	}
}

func TestProcessBuy_Settlement(t *testing.T) {
	mint := randomKey(t)
	seller := randomKey(t)
	buyer := randomKey(t)

	const price = uint64(1_500_000_000)
	listing, err := ProcessList(nil, mint, seller, price, 1)
	if err != nil {
		t.Fatal(err)
	}

	buyerLamports := uint64(2_000_000_000)
	sellerLamports := uint64(0)

	settlement, err := ProcessBuy(listing, buyer, buyerLamports)
	if err != nil {
		t.Fatal(err)
	}

	buyerLamports -= settlement.Price
	sellerLamports += settlement.Price

	if settlement.Price != price || settlement.Seller != seller || settlement.Buyer != buyer {
		t.Errorf("settlement wrong: %+v", settlement)
	}
	if buyerLamports != 500_000_000 || sellerLamports != price {
		t.Errorf("balances after buy: buyer %d seller %d", buyerLamports, sellerLamports)
	}
	if listing.State() != ListingStateSold {
		t.Errorf("state = %d, want sold", listing.State())
	}
}

func TestProcessBuy_SecondBuyFails(t *testing.T) {
	mint := randomKey(t)
	seller := randomKey(t)

	listing, err := ProcessList(nil, mint, seller, 1_000_000_000, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ProcessBuy(listing, randomKey(t), 5_000_000_000); err != nil {
		t.Fatal(err)
	}

	second := randomKey(t)
	secondLamports := uint64(5_000_000_000)

	settlement, err := ProcessBuy(listing, second, secondLamports)
	if !errors.Is(err, types.ErrListingNotActive) {
		t.Fatalf("second buy err = %v, want ErrListingNotActive", err)
	}
	if settlement != nil {
		t.Error("second buy produced a settlement")
	}
	if secondLamports != 5_000_000_000 {
		t.Error("second buyer balance changed")
	}
}

func TestProcessBuy_Guards(t *testing.T) {
	mint := randomKey(t)
	seller := randomKey(t)
	buyer := randomKey(t)

	if _, err := ProcessBuy(nil, buyer, 1_000_000_000); !errors.Is(err, types.ErrListingNotFound) {
		t.Errorf("missing listing err = %v, want ErrListingNotFound", err)
	}

	listing, err := ProcessList(nil, mint, seller, 1_000_000_000, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ProcessBuy(listing, buyer, 999_999_999); !errors.Is(err, types.ErrInsufficientBalance) {
		t.Errorf("poor buyer err = %v, want ErrInsufficientBalance", err)
	}
	if listing.State() != ListingStateListed {
		t.Error("failed buy must not deactivate the listing")
	}
}
