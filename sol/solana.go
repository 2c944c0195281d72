package sol

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/nft-bots/go-marketplace/imagegen"
	"github.com/nft-bots/go-marketplace/sol/escrow"
	"github.com/nft-bots/go-marketplace/sol/metaplex"
	"github.com/nft-bots/go-marketplace/types"
	"github.com/nft-bots/go-marketplace/utils"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const confirmTimeout = 60 * time.Second

const (
	maxNameLength   = 32
	maxSymbolLength = 10
)

type Solana struct {
	ctx     context.Context
	cfg     *types.Config
	watcher *Watcher
	client  *ws.Client
	service solana.PrivateKey
	image   *imagegen.Client
	uris    *utils.URIStore
}

func NewSolana(
	ctx context.Context,
	cfg *types.Config,
) (*Solana, error) {
	watcher, err := NewWatcher(cfg.RPC, cfg.WatchBlockHash)
	if err != nil {
		return nil, err
	}

	client, err := ws.Connect(ctx, cfg.WSRPC)
	if err != nil {
		return nil, err
	}

	var service solana.PrivateKey
	if cfg.ServicePrivateKey != "" {
		service, err = solana.PrivateKeyFromBase58(cfg.ServicePrivateKey)
		if err != nil {
			return nil, fmt.Errorf("%w: service key: %v", types.ErrInvalidInput, err)
		}
	}

	var image *imagegen.Client
	if cfg.ImageAPIURL != "" {
		image = imagegen.NewClient(cfg.ImageAPIURL, cfg.ImageAPIKey, cfg.ImagePollAttempts)
	}

	uris, err := utils.NewURIStore()
	if err != nil {
		return nil, err
	}

	return &Solana{
		ctx:     ctx,
		cfg:     cfg,
		watcher: watcher,
		client:  client,
		service: service,
		image:   image,
		uris:    uris,
	}, nil
}

func (s *Solana) Start() error {
	return s.watcher.Start()
}

func (s *Solana) Close() error {
	return s.watcher.Close()
}

func (s *Solana) GetType() int {
	return types.NetworkTypeSol
}

func (s *Solana) GetTypeSymbol() string {
	return "SOL"
}

func (s *Solana) GetNativeTokenSymbol() string {
	return s.cfg.NativeTokenSymbol
}

func (s *Solana) GetNativeTokenDecimals() uint8 {
	return s.cfg.NativeTokenDecimals
}

func (s *Solana) CheckAddress(text string) bool {
	reg, _ := regexp.Compile("^[1-9A-HJ-NP-Za-km-z]{32,44}$")
	if !reg.MatchString(text) {
		return false
	}
	_, err := solana.PublicKeyFromBase58(text)
	return err == nil
}

func (s *Solana) GetBalance(req *types.GetBalanceRequest) (*types.GetBalanceResponse, error) {
	address, err := solana.PublicKeyFromBase58(req.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: address: %v", types.ErrInvalidInput, err)
	}

	c := rpc.New(s.cfg.RPC)
	balance, err := c.GetBalance(s.ctx, address, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, fmt.Errorf("%w: balance: %v", types.ErrLedgerQueryFailed, err)
	}

	return &types.GetBalanceResponse{
		Lamports:   balance.Value,
		BalanceSOL: decimal.NewFromUint64(balance.Value).Div(decimal.NewFromInt(types.LamportsPerSOL)),
	}, nil
}

func (s *Solana) GetTokenBalance(req *types.GetTokenBalanceRequest) (uint64, error) {
	owner, err := solana.PublicKeyFromBase58(req.Owner)
	if err != nil {
		return 0, fmt.Errorf("%w: owner: %v", types.ErrInvalidInput, err)
	}
	mint, err := solana.PublicKeyFromBase58(req.Token)
	if err != nil {
		return 0, fmt.Errorf("%w: token: %v", types.ErrInvalidInput, err)
	}

	c := rpc.New(s.cfg.RPC)
	ret, err := c.GetTokenAccountsByOwner(s.ctx, owner, &rpc.GetTokenAccountsConfig{Mint: &mint}, &rpc.GetTokenAccountsOpts{Commitment: rpc.CommitmentConfirmed})
	if err != nil {
		return 0, fmt.Errorf("%w: token accounts: %v", types.ErrLedgerQueryFailed, err)
	}
	if len(ret.Value) == 0 {
		return 0, nil
	}

	var account token.Account
	err = account.UnmarshalWithDecoder(bin.NewBorshDecoder(ret.Value[0].Account.Data.GetBinary()))
	if err != nil {
		return 0, fmt.Errorf("%w: token account: %v", types.ErrAccountMalformed, err)
	}

	return account.Amount, nil
}

// authorize parses the claimed creator key and checks the request
// signature unless verification is disabled by configuration.
func (s *Solana) authorize(claimedPubkey, message, signature string) (solana.PublicKey, error) {
	if s.cfg.SkipSignatureVerify {
		pubKey, err := solana.PublicKeyFromBase58(claimedPubkey)
		if err != nil {
			return solana.PublicKey{}, fmt.Errorf("%w: pubkey: %v", types.ErrInvalidInput, err)
		}
		return pubKey, nil
	}
	return VerifyOwnership(claimedPubkey, []byte(message), signature)
}

func validateMintInputs(name, symbol, uri string) error {
	if name == "" || symbol == "" || uri == "" {
		return fmt.Errorf("%w: name, symbol and uri are required", types.ErrInvalidInput)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d bytes", types.ErrInvalidInput, maxNameLength)
	}
	if len(symbol) > maxSymbolLength {
		return fmt.Errorf("%w: symbol exceeds %d bytes", types.ErrInvalidInput, maxSymbolLength)
	}
	return nil
}

func (s *Solana) MintNFT(req *types.MintNFTRequest) (*types.MintNFTResponse, error) {
	creator, err := s.authorize(req.CreatorPubkey, req.Message, req.Signature)
	if err != nil {
		return nil, err
	}

	if err := validateMintInputs(req.Name, req.Symbol, req.URI); err != nil {
		return nil, err
	}

	return s.mint(creator, req.Name, req.Symbol, req.URI)
}

func (s *Solana) GenerateAndMintNFT(req *types.GenerateAndMintNFTRequest) (*types.MintNFTResponse, error) {
	creator, err := s.authorize(req.CreatorPubkey, req.Message, req.Signature)
	if err != nil {
		return nil, err
	}

	if s.image == nil {
		return nil, fmt.Errorf("%w: provider not configured", types.ErrProviderFailed)
	}

	imageURL, err := s.image.Generate(s.ctx, req.Prompt, req.Style)
	if err != nil {
		return nil, err
	}

	id, err := s.uris.Put(s.ctx, imageURL)
	if err != nil {
		return nil, err
	}
	uri := strings.TrimRight(s.cfg.ContentBaseURL, "/") + "/image/" + id

	if err := validateMintInputs(req.Name, req.Symbol, uri); err != nil {
		return nil, err
	}

	return s.mint(creator, req.Name, req.Symbol, uri)
}

func (s *Solana) mint(creator solana.PublicKey, name, symbol, uri string) (*types.MintNFTResponse, error) {
	if len(s.service) == 0 {
		return nil, fmt.Errorf("%w: service key not configured", types.ErrInvalidInput)
	}

	recentBlockHash, _ := s.watcher.GetRecentBlockHash()

	signature, mint, err := SendMint(s.ctx, s.cfg.RPC, name, symbol, uri, creator, s.service, recentBlockHash)
	if err != nil {
		return nil, mapSubmitError(err)
	}

	if err := s.confirmTransaction(signature, confirmTimeout); err != nil {
		return nil, err
	}

	return &types.MintNFTResponse{
		NFTAddress:           mint.String(),
		TransactionSignature: signature.String(),
	}, nil
}

func (s *Solana) ListNFT(req *types.ListNFTRequest, privateKey string) (*types.ListNFTResponse, error) {
	mint, err := solana.PublicKeyFromBase58(req.NFTAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: nft address: %v", types.ErrInvalidInput, err)
	}
	if req.Price == 0 {
		return nil, fmt.Errorf("%w: price must be positive", types.ErrInvalidInput)
	}

	sellerKey, err := solana.PrivateKeyFromBase58(privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: private key: %v", types.ErrInvalidInput, err)
	}
	if req.SellerPubkey != "" && sellerKey.PublicKey().String() != req.SellerPubkey {
		return nil, fmt.Errorf("%w: seller pubkey does not match signing key", types.ErrInvalidInput)
	}

	balance, err := s.GetTokenBalance(&types.GetTokenBalanceRequest{Owner: sellerKey.PublicKey().String(), Token: req.NFTAddress})
	if err != nil {
		return nil, err
	}
	if balance != 1 {
		return nil, fmt.Errorf("%w: seller holds %d units of %s", types.ErrInsufficientBalance, balance, req.NFTAddress)
	}

	recentBlockHash, _ := s.watcher.GetRecentBlockHash()

	signature, listing, err := escrow.SendList(s.ctx, s.cfg.RPC, mint, req.Price, sellerKey, recentBlockHash)
	if err != nil {
		return nil, mapSubmitError(err)
	}

	if err := s.confirmTransaction(signature, confirmTimeout); err != nil {
		return nil, err
	}

	return &types.ListNFTResponse{
		ListingAddress:       listing.String(),
		TransactionSignature: signature.String(),
	}, nil
}

func (s *Solana) BuyNFT(req *types.BuyNFTRequest, privateKey string) (*types.BuyNFTResponse, error) {
	listingPubKey, err := solana.PublicKeyFromBase58(req.ListingAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: listing address: %v", types.ErrInvalidInput, err)
	}

	buyerKey, err := solana.PrivateKeyFromBase58(privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: private key: %v", types.ErrInvalidInput, err)
	}
	if req.BuyerPubkey != "" && buyerKey.PublicKey().String() != req.BuyerPubkey {
		return nil, fmt.Errorf("%w: buyer pubkey does not match signing key", types.ErrInvalidInput)
	}

	recentBlockHash, _ := s.watcher.GetRecentBlockHash()

	signature, listing, err := escrow.SendBuy(s.ctx, s.cfg.RPC, listingPubKey, buyerKey, recentBlockHash)
	if err != nil {
		return nil, mapSubmitError(err)
	}

	if err := s.confirmTransaction(signature, confirmTimeout); err != nil {
		return nil, err
	}

	return &types.BuyNFTResponse{
		NFTAddress:           listing.NFTMint.String(),
		TransactionSignature: signature.String(),
	}, nil
}

func (s *Solana) GetNFT(req *types.GetNFTRequest) (*types.NFTInfo, error) {
	mint, err := solana.PublicKeyFromBase58(req.Mint)
	if err != nil {
		return nil, fmt.Errorf("%w: mint: %v", types.ErrInvalidInput, err)
	}

	metadataAccount, _, err := metaplex.FindMetadata(mint)
	if err != nil {
		return nil, fmt.Errorf("%w: metadata: %v", types.ErrDerivationFailed, err)
	}

	c := rpc.New(s.cfg.RPC)
	account, err := c.GetAccountInfoWithOpts(s.ctx, metadataAccount, &rpc.GetAccountInfoOpts{Commitment: rpc.CommitmentConfirmed})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%w: metadata for %s", types.ErrNotFound, req.Mint)
		}
		return nil, fmt.Errorf("%w: metadata read: %v", types.ErrLedgerQueryFailed, err)
	}

	meta, err := metaplex.DecodeMetadata(account.GetBinary())
	if err != nil {
		return nil, fmt.Errorf("%w: metadata: %v", types.ErrAccountMalformed, err)
	}

	return &types.NFTInfo{
		Mint:                req.Mint,
		Name:                utils.TrimSpace(meta.Data.Name),
		Symbol:              utils.TrimSpace(meta.Data.Symbol),
		URI:                 utils.TrimSpace(meta.Data.Uri),
		UpdateAuthority:     meta.UpdateAuthority.String(),
		IsMutable:           meta.IsMutable,
		PrimarySaleHappened: meta.PrimarySaleHappened,
	}, nil
}

func (s *Solana) GetListing(req *types.GetListingRequest) (*types.ListingInfo, error) {
	mint, err := solana.PublicKeyFromBase58(req.Mint)
	if err != nil {
		return nil, fmt.Errorf("%w: mint: %v", types.ErrInvalidInput, err)
	}

	listingPubKey, _, err := escrow.FindListing(mint)
	if err != nil {
		return nil, fmt.Errorf("%w: listing: %v", types.ErrDerivationFailed, err)
	}

	c := rpc.New(s.cfg.RPC)
	account, err := c.GetAccountInfoWithOpts(s.ctx, listingPubKey, &rpc.GetAccountInfoOpts{Commitment: rpc.CommitmentConfirmed})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%w: mint %s", types.ErrListingNotFound, req.Mint)
		}
		return nil, fmt.Errorf("%w: listing read: %v", types.ErrLedgerQueryFailed, err)
	}

	listing, err := escrow.DecodeListing(account.GetBinary())
	if err != nil {
		return nil, err
	}

	return &types.ListingInfo{
		ListingAddress: listingPubKey.String(),
		NFTMint:        listing.NFTMint.String(),
		Seller:         listing.Seller.String(),
		Price:          listing.Price,
		PriceSOL:       decimal.NewFromUint64(listing.Price).Div(decimal.NewFromInt(types.LamportsPerSOL)),
		IsActive:       listing.IsActive,
	}, nil
}

func (s *Solana) WatchTransaction(req *types.WatchTransactionRequest) error {
	sig, err := solana.SignatureFromBase58(req.TxHash)
	if err != nil {
		return fmt.Errorf("%w: signature: %v", types.ErrInvalidInput, err)
	}

	duration := lo.Ternary(req.Duration > 0, req.Duration, confirmTimeout)
	return s.confirmTransaction(sig, duration)
}

// confirmTransaction blocks until the ledger reports the transaction or
// the wait expires. Expiry is not failure: the transaction cannot be
// withdrawn and may still land, so it surfaces as an unknown outcome.
func (s *Solana) confirmTransaction(sig solana.Signature, duration time.Duration) error {
	sub, err := s.client.SignatureSubscribe(sig, rpc.CommitmentConfirmed)
	for err != nil {
		s.WsReconnect()
		sub, err = s.client.SignatureSubscribe(sig, rpc.CommitmentConfirmed)
	}
	defer sub.Unsubscribe()

	result, err := sub.RecvWithTimeout(duration)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", types.ErrOutcomeUnknown, sig, err)
	}

	if result.Value.Err != nil {
		errMap, ok := result.Value.Err.(map[string]interface{})
		if ok {
			if _, found := errMap["InstructionError"]; found {
				return fmt.Errorf("%w: instruction error in %s", types.ErrLedgerSubmitFailed, sig)
			}
		}
		return fmt.Errorf("%w: %s", types.ErrLedgerSubmitFailed, sig)
	}
	return nil
}

func (s *Solana) WsReconnect() {
	conn, err := ws.Connect(context.Background(), s.cfg.WSRPC)
	for err != nil {
		conn, err = ws.Connect(context.Background(), s.cfg.WSRPC)
	}
	s.client = conn
}

func (s *Solana) Withdraw(to string, amount decimal.Decimal, privateKey string) (string, error) {
	recipient, err := solana.PublicKeyFromBase58(to)
	if err != nil {
		return "", fmt.Errorf("%w: recipient: %v", types.ErrInvalidInput, err)
	}

	pk, err := solana.PrivateKeyFromBase58(privateKey)
	if err != nil {
		return "", fmt.Errorf("%w: private key: %v", types.ErrInvalidInput, err)
	}

	recentBlockHash, _ := s.watcher.GetRecentBlockHash()

	signature, err := SendTransfer(
		s.ctx,
		s.cfg.RPC,
		recipient,
		amount.Mul(decimal.NewFromInt(types.LamportsPerSOL)).BigInt().Uint64(),
		pk,
		recentBlockHash,
	)
	if err != nil {
		return "", mapSubmitError(err)
	}
	return signature.String(), nil
}

// mapSubmitError folds raw ledger errors into the domain taxonomy.
// Errors already classified upstream pass through.
func mapSubmitError(err error) error {
	if err == nil {
		return nil
	}

	for _, sentinel := range []error{
		types.ErrInvalidInput,
		types.ErrDerivationFailed,
		types.ErrLedgerQueryFailed,
		types.ErrListingNotFound,
		types.ErrListingNotActive,
		types.ErrListingMalformed,
		types.ErrInsufficientBalance,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	errStr := err.Error()
	if strings.Contains(errStr, "already in use") {
		return fmt.Errorf("%w: %s", types.ErrListingExists, errStr)
	}
	if strings.Contains(errStr, "insufficient lamports") || strings.Contains(errStr, "insufficient funds") {
		return fmt.Errorf("%w: %s", types.ErrInsufficientBalance, errStr)
	}
	return fmt.Errorf("%w: %s", types.ErrLedgerSubmitFailed, errStr)
}
