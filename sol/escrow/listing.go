package escrow

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
	"github.com/nft-bots/go-marketplace/types"
)

// Listing account layout:
// 8-byte discriminator | nft_mint 32 | seller 32 | price LE u64 | is_active u8.
const (
	listingDiscriminatorLen = 8
	listingMintOffset       = listingDiscriminatorLen
	listingSellerOffset     = listingMintOffset + 32
	listingPriceOffset      = listingSellerOffset + 32
	listingActiveOffset     = listingPriceOffset + 8

	ListingAccountSize = listingActiveOffset + 1
)

type Listing struct {
	NFTMint  solana.PublicKey
	Seller   solana.PublicKey
	Price    uint64
	IsActive bool
}

// DecodeListing parses raw listing account bytes. Accounts shorter than
// the full layout are rejected before any field is read.
func DecodeListing(data []byte) (*Listing, error) {
	if len(data) < ListingAccountSize {
		return nil, fmt.Errorf("%w: %d bytes, want %d", types.ErrListingMalformed, len(data), ListingAccountSize)
	}

	return &Listing{
		NFTMint:  solana.PublicKeyFromBytes(data[listingMintOffset:listingSellerOffset]),
		Seller:   solana.PublicKeyFromBytes(data[listingSellerOffset:listingPriceOffset]),
		Price:    binary.LittleEndian.Uint64(data[listingPriceOffset:listingActiveOffset]),
		IsActive: data[listingActiveOffset] != 0,
	}, nil
}

// EncodeListing renders a listing back into account bytes with a zero
// discriminator. The body is borsh, which coincides with the fixed
// layout DecodeListing reads.
func EncodeListing(l *Listing) ([]byte, error) {
	body, err := borsh.Serialize(struct {
		NFTMint  solana.PublicKey
		Seller   solana.PublicKey
		Price    uint64
		IsActive bool
	}{
		NFTMint:  l.NFTMint,
		Seller:   l.Seller,
		Price:    l.Price,
		IsActive: l.IsActive,
	})
	if err != nil {
		return nil, err
	}

	data := make([]byte, listingDiscriminatorLen, ListingAccountSize)
	return append(data, body...), nil
}
