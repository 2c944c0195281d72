package gomarketplace

import (
	"context"

	"github.com/nft-bots/go-marketplace/sol"
	"github.com/nft-bots/go-marketplace/types"
)

func NewMarketplace(ctx context.Context, cfg types.Config) (types.MarketplaceInterface, error) {
	if cfg.Type == types.NetworkTypeSol {
		return sol.NewSolana(ctx, &cfg)
	}
	return nil, types.ErrNotImplemented
}
