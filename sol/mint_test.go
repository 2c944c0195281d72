package sol

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/gagliardetto/solana-go"
	"github.com/nft-bots/go-marketplace/sol/metaplex"
	"github.com/nft-bots/go-marketplace/types"
)

func testMintParams(t *testing.T) MintParams {
	t.Helper()

	creator, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	payer, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	mint, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatal(err)
	}

	return MintParams{
		Name:    "Art #1",
		Symbol:  "ART",
		URI:     "https://content.example/image/abc123",
		Creator: creator.PublicKey(),
		Payer:   payer.PublicKey(),
		Mint:    mint.PublicKey(),
	}
}

func TestValidateMintInputs(t *testing.T) {
	const uri = "https://content.example/image/abc123"

	cases := []struct {
		desc    string
		name    string
		symbol  string
		uri     string
		wantErr bool
	}{
		{"valid", "Art #1", "ART", uri, false},
		{"name at limit", strings.Repeat("n", 32), "ART", uri, false},
		{"symbol at limit", "Art #1", strings.Repeat("s", 10), uri, false},
		{"empty name", "", "ART", uri, true},
		{"empty symbol", "Art #1", "", uri, true},
		{"empty uri", "Art #1", "ART", "", true},
		{"name over limit", strings.Repeat("n", 33), "ART", uri, true},
		{"symbol over limit", "Art #1", strings.Repeat("s", 11), uri, true},
	}

	for _, c := range cases {
		err := validateMintInputs(c.name, c.symbol, c.uri)
		if c.wantErr {
			if !errors.Is(err, types.ErrInvalidInput) {
				t.Errorf("%s: err = %v, want ErrInvalidInput", c.desc, err)
			}
		} else if err != nil {
			t.Errorf("%s: unexpected error %v", c.desc, err)
		}
	}
}

func TestBuildMintInstructions_Order(t *testing.T) {
	p := testMintParams(t)

	instructions, err := BuildMintInstructions(p, 1_461_600)
	if err != nil {
		t.Fatal(err)
	}
	if len(instructions) != 6 {
		t.Fatalf("got %d instructions, want 6\n%s", len(instructions), spew.Sdump(instructions))
	}

	programs := []solana.PublicKey{
		solana.SystemProgramID,
		solana.TokenProgramID,
		solana.SPLAssociatedTokenAccountProgramID,
		solana.TokenProgramID,
		metaplex.ProgramID,
		metaplex.ProgramID,
	}
	for i, want := range programs {
		if instructions[i].ProgramID() != want {
			t.Errorf("instruction %d program = %s, want %s", i, instructions[i].ProgramID(), want)
		}
	}
}

func TestBuildMintInstructions_MetadataPayload(t *testing.T) {
	p := testMintParams(t)

	instructions, err := BuildMintInstructions(p, 1_461_600)
	if err != nil {
		t.Fatal(err)
	}

	data, err := instructions[4].Data()
	if err != nil {
		t.Fatal(err)
	}
	if data[0] != 33 {
		t.Errorf("metadata discriminator = %d, want 33", data[0])
	}
	for _, field := range []string{p.Name, p.Symbol, p.URI} {
		if !bytes.Contains(data, []byte(field)) {
			t.Errorf("metadata payload missing %q", field)
		}
	}

	edition, err := instructions[5].Data()
	if err != nil {
		t.Fatal(err)
	}
	if edition[0] != 17 {
		t.Errorf("edition discriminator = %d, want 17", edition[0])
	}
	// Option::Some(0): tag byte 1 followed by a zero u64.
	want := []byte{17, 1, 0, 0, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(edition, want) {
		t.Errorf("edition payload = %v, want %v", edition, want)
	}
}

func TestBuildMintInstructions_TokenAccounts(t *testing.T) {
	p := testMintParams(t)

	instructions, err := BuildMintInstructions(p, 1_461_600)
	if err != nil {
		t.Fatal(err)
	}

	ata, _, err := solana.FindAssociatedTokenAddress(p.Creator, p.Mint)
	if err != nil {
		t.Fatal(err)
	}

	// Mint-to sends the single unit to the creator's associated account.
	mintTo := instructions[3].Accounts()
	if mintTo[1].PublicKey != ata {
		t.Errorf("mint-to destination = %s, want %s", mintTo[1].PublicKey, ata)
	}
	if mintTo[0].PublicKey != p.Mint {
		t.Errorf("mint-to mint = %s, want %s", mintTo[0].PublicKey, p.Mint)
	}
}
