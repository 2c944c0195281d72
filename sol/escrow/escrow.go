// Package escrow is the client for the on-chain NFT escrow marketplace
// program: address derivation, instruction building and listing state.
package escrow

import (
	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

var ProgramID = solana.MPK("Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS")

const ListingSeed = "listing"

type Instruction uint8

const (
	InstructionMint Instruction = iota // unused; minting goes through the token programs directly
	InstructionList
	InstructionBuy
)

// FindListing derives the listing account for a mint,
// seeds ["listing", mint]. One listing exists per mint.
func FindListing(mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{
			[]byte(ListingSeed),
			mint.Bytes(),
		},
		ProgramID,
	)
}

// FindEscrowTokenAccount derives the token account holding the NFT while
// listed: the associated account of the listing itself.
func FindEscrowTokenAccount(listing, mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindAssociatedTokenAddress(listing, mint)
}

// ListingSignerSeeds reproduces the seed sequence under which the listing
// account signs the escrow-to-buyer transfer on chain. Holding the mint
// and the bump is the only authority proof there is.
func ListingSignerSeeds(mint solana.PublicKey, bump uint8) [][]byte {
	return [][]byte{
		[]byte(ListingSeed),
		mint.Bytes(),
		{bump},
	}
}

type CreateListParam struct {
	Listing solana.PublicKey
	Mint    solana.PublicKey

	SellerTokenAccount solana.PublicKey
	EscrowTokenAccount solana.PublicKey
	Seller             solana.PublicKey

	Price uint64
}

// NewListInstruction builds the list instruction: payload
// [opcode=1][price LE u64] against the program's fixed nine accounts.
func NewListInstruction(param CreateListParam) (solana.Instruction, error) {
	data, err := borsh.Serialize(struct {
		Instruction Instruction
		Price       uint64
	}{
		Instruction: InstructionList,
		Price:       param.Price,
	})
	if err != nil {
		return nil, err
	}

	return &solana.GenericInstruction{
		ProgID: ProgramID,
		AccountValues: solana.AccountMetaSlice{
			{PublicKey: param.Listing, IsSigner: false, IsWritable: true},
			{PublicKey: param.Mint, IsSigner: false, IsWritable: false},
			{PublicKey: param.SellerTokenAccount, IsSigner: false, IsWritable: true},
			{PublicKey: param.EscrowTokenAccount, IsSigner: false, IsWritable: true},
			{PublicKey: param.Seller, IsSigner: true, IsWritable: true},
			{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
			{PublicKey: solana.SPLAssociatedTokenAccountProgramID, IsSigner: false, IsWritable: false},
			{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
			{PublicKey: solana.SysVarRentPubkey, IsSigner: false, IsWritable: false},
		},
		DataBytes: data,
	}, nil
}

type CreateBuyParam struct {
	Listing solana.PublicKey
	Mint    solana.PublicKey

	EscrowTokenAccount solana.PublicKey
	BuyerTokenAccount  solana.PublicKey
	Seller             solana.PublicKey
	Buyer              solana.PublicKey
}

// NewBuyInstruction builds the buy instruction: payload [opcode=2], no
// arguments; price and seller come from the listing account on chain.
func NewBuyInstruction(param CreateBuyParam) (solana.Instruction, error) {
	data, err := borsh.Serialize(struct {
		Instruction Instruction
	}{
		Instruction: InstructionBuy,
	})
	if err != nil {
		return nil, err
	}

	return &solana.GenericInstruction{
		ProgID: ProgramID,
		AccountValues: solana.AccountMetaSlice{
			{PublicKey: param.Listing, IsSigner: false, IsWritable: true},
			{PublicKey: param.Mint, IsSigner: false, IsWritable: false},
			{PublicKey: param.EscrowTokenAccount, IsSigner: false, IsWritable: true},
			{PublicKey: param.BuyerTokenAccount, IsSigner: false, IsWritable: true},
			{PublicKey: param.Seller, IsSigner: false, IsWritable: true},
			{PublicKey: param.Buyer, IsSigner: true, IsWritable: true},
			{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
			{PublicKey: solana.SPLAssociatedTokenAccountProgramID, IsSigner: false, IsWritable: false},
			{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		},
		DataBytes: data,
	}, nil
}
