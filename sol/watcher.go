package sol

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/nft-bots/go-marketplace/utils"
)

type (
	watcherState uint8

	// Watcher keeps a recent blockhash warm so flows can sign without a
	// round trip. Blockhashes expire quickly; anything stale is
	// discarded and the caller fetches a fresh one itself.
	Watcher struct {
		client        *rpc.Client
		hash          solana.Hash
		hashUpdatedAt time.Time
		hashLock      sync.RWMutex
		withBlockHash bool

		ctx          context.Context
		cancel       context.CancelFunc
		subprocesses utils.Subprocesses

		stateMu sync.Mutex
		state   watcherState
	}
)

const (
	_ watcherState = iota
	watcherStatePending
	watcherStateOpen
	watcherStateClosed
)

const blockHashMaxAge = 3 * time.Second

func NewWatcher(url string, withBlockHash bool) (*Watcher, error) {
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		client:        rpc.New(url),
		hash:          solana.Hash{},
		withBlockHash: withBlockHash,
		ctx:           ctx,
		cancel:        cancel,
		subprocesses:  utils.Subprocesses{},
		stateMu:       sync.Mutex{},
		state:         watcherStatePending,
	}, nil
}

func (w *Watcher) Start() error {
	succeed := false
	defer func() {
		if !succeed {
			w.Close()
		}
	}()

	w.stateMu.Lock()
	defer w.stateMu.Unlock()

	if w.state != watcherStatePending {
		return errors.New("cannot Start() watcher that has already been started")
	}

	w.state = watcherStateOpen

	if w.withBlockHash {
		w.subprocesses.Go(func() {
			w.WatchBlockHash(time.Second)
		})
	}

	succeed = true
	return nil
}

func (w *Watcher) Close() error {
	w.stateMu.Lock()
	defer w.stateMu.Unlock()

	if w.state != watcherStateOpen {
		return errors.New("cannot Close() watcher that isn't open")
	}

	w.state = watcherStateClosed
	w.cancel()
	w.subprocesses.Wait()
	return nil
}

func (w *Watcher) QueryBlockHash() (solana.Hash, error) {
	recentBlock, err := w.client.GetLatestBlockhash(context.Background(), rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, err
	}
	return recentBlock.Value.Blockhash, nil
}

func (w *Watcher) WatchBlockHash(interval time.Duration) {
	for {
		select {
		case <-time.After(interval):
		case <-w.ctx.Done():
			return
		}

		hash, err := w.QueryBlockHash()
		if err == nil {
			w.hashLock.Lock()
			w.hash = hash
			w.hashUpdatedAt = time.Now()
			w.hashLock.Unlock()
		}
	}
}

func (w *Watcher) GetRecentBlockHash() (solana.Hash, bool) {
	if !w.withBlockHash {
		return solana.Hash{}, false
	}

	w.hashLock.RLock()
	defer w.hashLock.RUnlock()
	if time.Since(w.hashUpdatedAt) > blockHashMaxAge {
		return solana.Hash{}, false
	}
	return solana.HashFromBytes(w.hash[:]), true
}
