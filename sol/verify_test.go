package sol

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/nft-bots/go-marketplace/types"
)

func signedMessage(t *testing.T, message []byte) (string, string) {
	t.Helper()

	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	sig, err := key.Sign(message)
	if err != nil {
		t.Fatal(err)
	}
	return key.PublicKey().String(), sig.String()
}

func TestVerifyOwnership(t *testing.T) {
	message := []byte("mint request 42")
	pubkey, sig := signedMessage(t, message)

	got, err := VerifyOwnership(pubkey, message, sig)
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != pubkey {
		t.Errorf("returned pubkey %s, want %s", got, pubkey)
	}
}

func TestVerifyOwnership_TamperedMessage(t *testing.T) {
	pubkey, sig := signedMessage(t, []byte("mint request 42"))

	if _, err := VerifyOwnership(pubkey, []byte("mint request 43"), sig); !errors.Is(err, types.ErrSignatureInvalid) {
		t.Errorf("err = %v, want ErrSignatureInvalid", err)
	}
}

func TestVerifyOwnership_WrongSigner(t *testing.T) {
	message := []byte("mint request 42")
	_, sig := signedMessage(t, message)
	other, _ := signedMessage(t, message)

	if _, err := VerifyOwnership(other, message, sig); !errors.Is(err, types.ErrSignatureInvalid) {
		t.Errorf("err = %v, want ErrSignatureInvalid", err)
	}
}

func TestVerifyOwnership_BadLength(t *testing.T) {
	message := []byte("hello")
	pubkey, _ := signedMessage(t, message)

	// 63 and 65 byte payloads must be rejected before any curve math.
	for _, n := range []int{0, 1, 63, 65, 128} {
		sig := base58.Encode(make([]byte, n))
		if _, err := VerifyOwnership(pubkey, message, sig); !errors.Is(err, types.ErrSignatureInvalid) {
			t.Errorf("%d-byte signature: err = %v, want ErrSignatureInvalid", n, err)
		}
	}
}

func TestVerifyOwnership_NotBase58(t *testing.T) {
	message := []byte("hello")
	pubkey, _ := signedMessage(t, message)

	if _, err := VerifyOwnership(pubkey, message, "not-base58-0OIl"); !errors.Is(err, types.ErrSignatureInvalid) {
		t.Errorf("err = %v, want ErrSignatureInvalid", err)
	}
}

func TestVerifyOwnership_BadPubkey(t *testing.T) {
	message := []byte("hello")
	_, sig := signedMessage(t, message)

	if _, err := VerifyOwnership("tooshort", message, sig); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}
