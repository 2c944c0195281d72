package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type (
	GetBalanceRequest struct {
		Address string
	}

	GetBalanceResponse struct {
		Lamports   uint64
		BalanceSOL decimal.Decimal
	}

	GetTokenBalanceRequest struct {
		Owner string
		Token string
	}

	MintNFTRequest struct {
		Name          string
		Symbol        string
		URI           string
		CreatorPubkey string
		Message       string
		Signature     string
	}

	MintNFTResponse struct {
		NFTAddress           string
		TransactionSignature string
	}

	GenerateAndMintNFTRequest struct {
		Name          string
		Symbol        string
		Prompt        string
		Style         string
		CreatorPubkey string
		Message       string
		Signature     string
	}

	ListNFTRequest struct {
		NFTAddress   string
		Price        uint64
		SellerPubkey string
	}

	ListNFTResponse struct {
		ListingAddress       string
		TransactionSignature string
	}

	BuyNFTRequest struct {
		ListingAddress string
		BuyerPubkey    string
	}

	BuyNFTResponse struct {
		NFTAddress           string
		TransactionSignature string
	}

	GetNFTRequest struct {
		Mint string
	}

	NFTInfo struct {
		Mint                string
		Name                string
		Symbol              string
		URI                 string
		UpdateAuthority     string
		IsMutable           bool
		PrimarySaleHappened bool
	}

	GetListingRequest struct {
		Mint string
	}

	ListingInfo struct {
		ListingAddress string
		NFTMint        string
		Seller         string
		Price          uint64
		PriceSOL       decimal.Decimal
		IsActive       bool
	}

	WatchTransactionRequest struct {
		TxHash   string
		Duration time.Duration
	}

	MarketplaceInterface interface {
		Start() error
		Close() error
		GetType() int
		GetTypeSymbol() string
		GetNativeTokenSymbol() string
		GetNativeTokenDecimals() uint8
		CheckAddress(text string) bool
		GetBalance(req *GetBalanceRequest) (*GetBalanceResponse, error)
		MintNFT(req *MintNFTRequest) (*MintNFTResponse, error)
		GenerateAndMintNFT(req *GenerateAndMintNFTRequest) (*MintNFTResponse, error)
		ListNFT(req *ListNFTRequest, privateKey string) (*ListNFTResponse, error)
		BuyNFT(req *BuyNFTRequest, privateKey string) (*BuyNFTResponse, error)
		GetNFT(req *GetNFTRequest) (*NFTInfo, error)
		GetListing(req *GetListingRequest) (*ListingInfo, error)
		WatchTransaction(req *WatchTransactionRequest) error
		Withdraw(to string, amount decimal.Decimal, privateKey string) (string, error)
	}
)
