// Package metaplex builds instructions for the token-metadata program and
// decodes its accounts.
package metaplex

import (
	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

var ProgramID = solana.MPK("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

const (
	instructionCreateMetadataAccountV3 uint8 = 33
	instructionCreateMasterEditionV3   uint8 = 17
)

// FindMetadata derives the metadata account for a mint,
// seeds ["metadata", program, mint].
func FindMetadata(mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindTokenMetadataAddress(mint)
}

// FindMasterEdition derives the master edition account for a mint,
// seeds ["metadata", program, mint, "edition"].
func FindMasterEdition(mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{
			[]byte("metadata"),
			ProgramID.Bytes(),
			mint.Bytes(),
			[]byte("edition"),
		},
		ProgramID,
	)
}

type CreateMetadataAccountV3Param struct {
	Metadata        solana.PublicKey
	Mint            solana.PublicKey
	MintAuthority   solana.PublicKey
	Payer           solana.PublicKey
	UpdateAuthority solana.PublicKey

	Data      DataV2
	IsMutable bool
}

func NewCreateMetadataAccountV3Instruction(param CreateMetadataAccountV3Param) (solana.Instruction, error) {
	data, err := borsh.Serialize(struct {
		Instruction       uint8
		Data              DataV2
		IsMutable         bool
		CollectionDetails *CollectionDetails
	}{
		Instruction: instructionCreateMetadataAccountV3,
		Data:        param.Data,
		IsMutable:   param.IsMutable,
	})
	if err != nil {
		return nil, err
	}

	return &solana.GenericInstruction{
		ProgID: ProgramID,
		AccountValues: solana.AccountMetaSlice{
			{PublicKey: param.Metadata, IsSigner: false, IsWritable: true},
			{PublicKey: param.Mint, IsSigner: false, IsWritable: false},
			{PublicKey: param.MintAuthority, IsSigner: true, IsWritable: false},
			{PublicKey: param.Payer, IsSigner: true, IsWritable: true},
			{PublicKey: param.UpdateAuthority, IsSigner: true, IsWritable: false},
			{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
			{PublicKey: solana.SysVarRentPubkey, IsSigner: false, IsWritable: false},
		},
		DataBytes: data,
	}, nil
}

type CreateMasterEditionV3Param struct {
	Edition         solana.PublicKey
	Mint            solana.PublicKey
	UpdateAuthority solana.PublicKey
	MintAuthority   solana.PublicKey
	Payer           solana.PublicKey
	Metadata        solana.PublicKey

	// MaxSupply of printable editions; 0 marks the mint as unique.
	MaxSupply *uint64
}

func NewCreateMasterEditionV3Instruction(param CreateMasterEditionV3Param) (solana.Instruction, error) {
	data, err := borsh.Serialize(struct {
		Instruction uint8
		MaxSupply   *uint64
	}{
		Instruction: instructionCreateMasterEditionV3,
		MaxSupply:   param.MaxSupply,
	})
	if err != nil {
		return nil, err
	}

	return &solana.GenericInstruction{
		ProgID: ProgramID,
		AccountValues: solana.AccountMetaSlice{
			{PublicKey: param.Edition, IsSigner: false, IsWritable: true},
			{PublicKey: param.Mint, IsSigner: false, IsWritable: true},
			{PublicKey: param.UpdateAuthority, IsSigner: true, IsWritable: false},
			{PublicKey: param.MintAuthority, IsSigner: true, IsWritable: false},
			{PublicKey: param.Payer, IsSigner: true, IsWritable: true},
			{PublicKey: param.Metadata, IsSigner: false, IsWritable: true},
			{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
			{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
			{PublicKey: solana.SysVarRentPubkey, IsSigner: false, IsWritable: false},
		},
		DataBytes: data,
	}, nil
}
