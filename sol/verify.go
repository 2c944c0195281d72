package sol

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/nft-bots/go-marketplace/types"
)

const signatureLength = 64

// VerifyOwnership checks that the claimed owner signed message. The
// signature must be exactly 64 bytes; malformed input is rejected before
// any cryptographic work.
func VerifyOwnership(claimedPubkey string, message []byte, signature string) (solana.PublicKey, error) {
	pubKey, err := solana.PublicKeyFromBase58(claimedPubkey)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: pubkey: %v", types.ErrInvalidInput, err)
	}

	sigBytes, err := base58.Decode(signature)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: not base58", types.ErrSignatureInvalid)
	}
	if len(sigBytes) != signatureLength {
		return solana.PublicKey{}, fmt.Errorf("%w: %d bytes, want %d", types.ErrSignatureInvalid, len(sigBytes), signatureLength)
	}

	sig := solana.SignatureFromBytes(sigBytes)
	if !sig.Verify(pubKey, message) {
		return solana.PublicKey{}, fmt.Errorf("%w: verification failed", types.ErrSignatureInvalid)
	}

	return pubKey, nil
}
