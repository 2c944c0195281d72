package escrow

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/gagliardetto/solana-go"
	"github.com/nft-bots/go-marketplace/types"
)

func randomKey(t *testing.T) solana.PublicKey {
	t.Helper()
	pk, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	return pk.PublicKey()
}

func TestDecodeListing_RoundTrip(t *testing.T) {
	for _, price := range []uint64{0, 1, 1_500_000_000, 2_000_000_000, math.MaxUint64} {
		original := &Listing{
			NFTMint:  randomKey(t),
			Seller:   randomKey(t),
			Price:    price,
			IsActive: true,
		}

		data, err := EncodeListing(original)
		if err != nil {
			t.Fatal(err)
		}
		if len(data) != ListingAccountSize {
			t.Fatalf("encoded %d bytes, want %d", len(data), ListingAccountSize)
		}

		decoded, err := DecodeListing(data)
		if err != nil {
			t.Fatal(err)
		}

		if decoded.NFTMint != original.NFTMint || decoded.Seller != original.Seller ||
			decoded.Price != original.Price || decoded.IsActive != original.IsActive {
			t.Fatalf("round trip mismatch:\n%s", spew.Sdump(original, decoded))
		}
	}
}

func TestDecodeListing_FixedOffsets(t *testing.T) {
	mint := randomKey(t)
	seller := randomKey(t)

	data := make([]byte, ListingAccountSize)
	copy(data[8:40], mint.Bytes())
	copy(data[40:72], seller.Bytes())
	binary.LittleEndian.PutUint64(data[72:80], 1_500_000_000)
	data[80] = 1

	listing, err := DecodeListing(data)
	if err != nil {
		t.Fatal(err)
	}

	if listing.NFTMint != mint {
		t.Errorf("mint = %s, want %s", listing.NFTMint, mint)
	}
	if listing.Seller != seller {
		t.Errorf("seller = %s, want %s", listing.Seller, seller)
	}
	if listing.Price != 1_500_000_000 {
		t.Errorf("price = %d, want 1500000000", listing.Price)
	}
	if !listing.IsActive {
		t.Error("expected active listing")
	}
}

func TestDecodeListing_TooShort(t *testing.T) {
	for _, size := range []int{0, 8, 40, 72, 80} {
		_, err := DecodeListing(make([]byte, size))
		if !errors.Is(err, types.ErrListingMalformed) {
			t.Errorf("size %d: err = %v, want ErrListingMalformed", size, err)
		}
	}
}

func TestDecodeListing_Inactive(t *testing.T) {
	original := &Listing{
		NFTMint:  randomKey(t),
		Seller:   randomKey(t),
		Price:    42,
		IsActive: false,
	}

	data, err := EncodeListing(original)
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := DecodeListing(data)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.IsActive {
		t.Error("expected inactive listing")
	}
}

func TestPriceEncoding_LittleEndian(t *testing.T) {
	for _, price := range []uint64{0, 1_500_000_000, math.MaxUint64} {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], price)
		if got := binary.LittleEndian.Uint64(buf[:]); got != price {
			t.Errorf("round trip of %d yielded %d", price, got)
		}
	}

	data := make([]byte, ListingAccountSize)
	binary.LittleEndian.PutUint64(data[72:80], 1_500_000_000)
	if !bytes.Equal(data[72:80], []byte{0x00, 0x2f, 0x68, 0x59, 0x00, 0x00, 0x00, 0x00}) {
		t.Errorf("unexpected little-endian encoding: %x", data[72:80])
	}
}
