package types

const LamportsPerSOL = 1_000_000_000

const (
	NetworkTypeSol int = iota
)
