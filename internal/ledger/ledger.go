// Package ledger keeps the persisted burn history, running total and combo
// multiplier.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ligun0805/token-inferno/internal/storage"
)

// StorageKey is where the ledger document lives in the store.
const StorageKey = "inferno-burn-storage"

const stateVersion = 0

var ErrCorruptState = errors.New("persisted burn history is unreadable")

// Burn is the input to AddBurn. A zero Timestamp means now.
type Burn struct {
	Name      string
	Symbol    string
	Value     float64
	TxID      string
	Timestamp int64
}

type Ledger struct {
	store storage.Store
	key   string
	now   func() time.Time
	log   *zap.SugaredLogger

	mu    sync.Mutex
	state State
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option { return func(l *Ledger) { l.now = now } }

func WithLogger(log *zap.SugaredLogger) Option { return func(l *Ledger) { l.log = log } }

// Open loads the ledger from store, starting empty when nothing is stored.
func Open(ctx context.Context, store storage.Store, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		store: store,
		key:   StorageKey,
		now:   time.Now,
		log:   zap.NewNop().Sugar(),
		state: initialState(),
	}
	for _, o := range opts {
		o(l)
	}

	raw, err := store.Get(ctx, l.key)
	if errors.Is(err, storage.ErrNotFound) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load burn history: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	l.state = env.State.normalize()
	l.log.Debugw("burn history loaded", "entries", len(l.state.BurnHistory), "total", l.state.TotalBurned)
	return l, nil
}

func (l *Ledger) save(ctx context.Context, s State) error {
	raw, err := json.Marshal(envelope{State: s, Version: stateVersion})
	if err != nil {
		return fmt.Errorf("encode burn history: %w", err)
	}
	if err := l.store.Set(ctx, l.key, raw); err != nil {
		return fmt.Errorf("save burn history: %w", err)
	}
	return nil
}

// AddBurn prepends a burn, bumps the total and updates the combo. The
// in-memory state only changes once the store accepted the write.
func (l *Ledger) AddBurn(ctx context.Context, b Burn) (Entry, error) {
	ts := b.Timestamp
	if ts == 0 {
		ts = l.now().UnixMilli()
	}
	e := Entry{Name: b.Name, Symbol: b.Symbol, Value: b.Value, Timestamp: ts, TxID: b.TxID}

	l.mu.Lock()
	defer l.mu.Unlock()
	next := l.state.withBurn(e)
	if err := l.save(ctx, next); err != nil {
		return Entry{}, err
	}
	l.state = next
	l.log.Infow("burn recorded", "tx", e.TxID, "symbol", e.Symbol, "value", e.Value, "combo", next.ComboMultiplier)
	return e, nil
}

// Reset returns the ledger to its initial empty state.
func (l *Ledger) Reset(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := initialState()
	if err := l.save(ctx, next); err != nil {
		return err
	}
	l.state = next
	l.log.Infow("burn history reset")
	return nil
}

// CleanupDuplicates rebuilds history keeping the oldest entry per
// transaction, replaying survivors oldest first with their original
// timestamps. It returns how many entries were dropped.
func (l *Ledger) CleanupDuplicates(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	keep := oldestFirstUnique(l.state.BurnHistory)
	removed := len(l.state.BurnHistory) - len(keep)
	if removed == 0 {
		return 0, nil
	}
	next := initialState()
	for _, e := range keep {
		next = next.withBurn(e)
	}
	if err := l.save(ctx, next); err != nil {
		return 0, err
	}
	l.state = next
	l.log.Infow("duplicate burns removed", "removed", removed, "remaining", len(keep))
	return removed, nil
}

// HasTx reports whether txID is already recorded.
func (l *Ledger) HasTx(txID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.state.BurnHistory {
		if e.TxID == txID {
			return true
		}
	}
	return false
}

func (l *Ledger) HasDuplicates() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(unique(l.state.BurnHistory)) != len(l.state.BurnHistory)
}

// Unique returns history with repeated transactions hidden, newest first.
func (l *Ledger) Unique() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return unique(l.state.BurnHistory)
}

// State returns a copy of the current ledger state.
func (l *Ledger) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.clone()
}

func (l *Ledger) Rank() Rank {
	return RankFor(len(l.Unique()))
}
