package utils

import (
	"context"
	"crypto/md5"
	"encoding/hex"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	rstore "github.com/eko/gocache/store/ristretto/v4"
)

// URIStore maps short content identifiers to the original content URLs.
// Flows that mint against generated content register the URL here and
// embed only the derived identifier in the metadata URI.
type URIStore struct {
	cache    *cache.Cache[string]
	rawCache *ristretto.Cache
}

func NewURIStore() (*URIStore, error) {
	rcache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000000,
		MaxCost:     100000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	store_ := rstore.NewRistretto(rcache)
	manager := cache.New[string](store_)
	return &URIStore{cache: manager, rawCache: rcache}, nil
}

// Put registers a content URL and returns its identifier. The identifier
// is a digest of the URL, so re-registering the same URL is idempotent.
// The write is flushed before returning; the identifier ends up embedded
// in on-chain metadata, so it must resolve once minting proceeds.
func (s *URIStore) Put(ctx context.Context, url string) (string, error) {
	sum := md5.Sum([]byte(url))
	id := hex.EncodeToString(sum[:])
	err := s.cache.Set(ctx, id, url)
	if err != nil {
		return "", err
	}
	s.rawCache.Wait()
	return id, nil
}

func (s *URIStore) Get(ctx context.Context, id string) (string, error) {
	return s.cache.Get(ctx, id)
}
