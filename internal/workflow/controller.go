// Package workflow drives a single token burn from address entry to the
// recorded result.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ligun0805/token-inferno/internal/burn"
	"github.com/ligun0805/token-inferno/internal/chain"
	"github.com/ligun0805/token-inferno/internal/classifier"
	"github.com/ligun0805/token-inferno/internal/ledger"
	"github.com/ligun0805/token-inferno/internal/metrics"
	"github.com/ligun0805/token-inferno/internal/notify"
)

// SpecialTokenPercent is the default burn percentage for flagged tokens.
var SpecialTokenPercent = burn.NewPercent(80)

const DefaultResetDelay = 3 * time.Second

type Config struct {
	ChainID    uint64
	Owner      common.Address
	Reader     ChainReader
	Classifier classifier.Classifier
	Submitters SubmitterFactory
	Ledger     Ledger
	Notifier   notify.Notifier
	Metrics    *metrics.Metrics
	Logger     *zap.SugaredLogger
	ResetDelay time.Duration
	AfterFunc  AfterFunc
}

type pendingBurn struct {
	hash    common.Hash
	token   TokenInfo
	amount  *big.Int
	percent burn.Percent
	gen     uint64
}

type Controller struct {
	owner      common.Address
	reader     ChainReader
	classifier classifier.Classifier
	submitters SubmitterFactory
	ledger     Ledger
	notifier   notify.Notifier
	metrics    *metrics.Metrics
	log        *zap.SugaredLogger
	resetDelay time.Duration
	afterFunc  AfterFunc

	mu        sync.Mutex
	state     State
	chainID   uint64
	address   string
	token     *TokenInfo
	percent   burn.Percent
	advanced  bool
	gen       uint64
	pending   *pendingBurn
	processed map[common.Hash]struct{}
	stopReset func() bool
}

func New(cfg Config) *Controller {
	c := &Controller{
		owner:      cfg.Owner,
		reader:     cfg.Reader,
		classifier: cfg.Classifier,
		submitters: cfg.Submitters,
		ledger:     cfg.Ledger,
		notifier:   cfg.Notifier,
		metrics:    cfg.Metrics,
		log:        cfg.Logger,
		resetDelay: cfg.ResetDelay,
		afterFunc:  cfg.AfterFunc,
		chainID:    cfg.ChainID,
		percent:    burn.Full,
		processed:  map[common.Hash]struct{}{},
	}
	if c.log == nil {
		c.log = zap.NewNop().Sugar()
	}
	if c.notifier == nil {
		c.notifier = notify.Multi{}
	}
	if c.resetDelay <= 0 {
		c.resetDelay = DefaultResetDelay
	}
	if c.afterFunc == nil {
		c.afterFunc = timeAfterFunc
	}
	return c
}

// View returns a snapshot of the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{
		State:        c.state,
		ChainID:      c.chainID,
		Address:      c.address,
		Percent:      c.percent,
		AdvancedOpen: c.advanced,
	}
	if c.token != nil {
		t := c.token.clone()
		v.Token = &t
	}
	if c.pending != nil {
		v.TxHash = c.pending.hash
	}
	return v
}

func (c *Controller) cancelResetLocked() {
	if c.stopReset != nil {
		c.stopReset()
		c.stopReset = nil
	}
}

func (c *Controller) clearLocked() {
	c.cancelResetLocked()
	c.gen++
	c.token = nil
	c.pending = nil
	c.percent = burn.Full
	c.advanced = false
}

// Load validates input, reads the token on the current chain and classifies
// it. Results for an address or chain that is no longer selected are dropped
// with ErrStale.
func (c *Controller) Load(ctx context.Context, input string) (TokenInfo, error) {
	input = strings.TrimSpace(input)
	if !common.IsHexAddress(input) {
		c.metrics.Lookup("invalid")
		return TokenInfo{}, fmt.Errorf("%w: %q", ErrInvalidAddress, input)
	}
	addr := common.HexToAddress(input)

	c.mu.Lock()
	if c.state == StateBurnPending || c.state == StateBurnConfirming {
		c.mu.Unlock()
		return TokenInfo{}, ErrBusy
	}
	c.clearLocked()
	c.address = input
	c.state = StateLoading
	gen, chainID := c.gen, c.chainID
	c.mu.Unlock()

	c.log.Infow("loading token", "token", addr.Hex(), "chain", chainID)

	has, err := c.reader.HasCode(ctx, chainID, addr)
	if err != nil {
		c.abortLoad(gen)
		c.metrics.Lookup("error")
		c.notifier.Notify(notify.Notification{Severity: notify.Error, Title: "Failed to load token", Description: err.Error()})
		return TokenInfo{}, fmt.Errorf("load %s: %w", addr.Hex(), err)
	}
	if !has {
		return TokenInfo{}, c.notAContract(ctx, gen, chainID, addr)
	}

	md := c.reader.Token(ctx, chainID, addr, c.owner)

	var (
		restr chain.Restrictions
		cls   classifier.Result
		g     errgroup.Group
	)
	g.Go(func() error {
		restr = c.reader.Restrictions(ctx, chainID, addr, c.owner, burn.DeadAddress)
		return nil
	})
	g.Go(func() error {
		cls = c.classifier.Classify(ctx, classifier.Input{ChainID: chainID, Token: addr, Name: md.Name, Symbol: md.Symbol})
		return nil
	})
	_ = g.Wait()

	info := TokenInfo{
		Address:        addr,
		Name:           md.Name,
		Symbol:         md.Symbol,
		Decimals:       md.Decimals,
		Balance:        md.Balance,
		IsSpecialToken: cls.IsSpecial,
		TokenWarning:   cls.Warning,
		Restrictions:   restr,
	}
	if info.TokenWarning == "" && !md.NameOK && !md.SymbolOK {
		info.TokenWarning = msgUnknownMetadata
	}

	c.mu.Lock()
	if c.gen != gen || c.chainID != chainID {
		c.mu.Unlock()
		c.log.Debugw("dropping stale token load", "token", addr.Hex(), "chain", chainID)
		c.metrics.Lookup("stale")
		return TokenInfo{}, ErrStale
	}
	stored := info.clone()
	c.token = &stored
	if info.IsSpecialToken {
		c.percent = SpecialTokenPercent
		c.advanced = true
	}
	c.state = StateLoaded
	c.mu.Unlock()

	c.metrics.Lookup("loaded")
	c.metrics.Classified(info.IsSpecialToken)
	c.log.Infow("token loaded",
		"token", addr.Hex(), "name", info.Name, "symbol", info.Symbol,
		"decimals", info.Decimals, "balance", info.Balance.String(),
		"special", info.IsSpecialToken, "restrictions", restr.Summary())
	if info.TokenWarning != "" {
		c.notifier.Notify(notify.Notification{Severity: notify.Warning, Title: "Heads up", Description: info.TokenWarning})
	}
	if restr.Blocked() {
		c.notifier.Notify(notify.Notification{Severity: notify.Warning, Title: "Transfers look restricted", Description: restr.Summary()})
	}
	return info, nil
}

func (c *Controller) notAContract(ctx context.Context, gen, chainID uint64, addr common.Address) error {
	n, found := c.reader.Locate(ctx, chainID, addr)
	if !c.abortLoad(gen) {
		return ErrStale
	}
	if found {
		c.metrics.Lookup("wrong_network")
		c.notifier.Notify(notify.Notification{Severity: notify.Warning, Title: "Token found on " + n.Name, Description: msgWrongNetwork})
		return fmt.Errorf("%w: %s", ErrWrongNetwork, n)
	}
	c.metrics.Lookup("not_contract")
	c.notifier.Notify(notify.Notification{Severity: notify.Error, Title: msgNotContract})
	return ErrNotContract
}

// abortLoad returns to Idle if gen is still current.
func (c *Controller) abortLoad(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.state = StateIdle
	return true
}

// SetPercentText parses user input, clamping it into [0.01, 100].
func (c *Controller) SetPercentText(text string) (burn.Percent, error) {
	p, err := burn.ClampPercent(text)
	if err != nil {
		return burn.Percent{}, err
	}
	c.mu.Lock()
	c.percent = p
	c.mu.Unlock()
	return p, nil
}

func (c *Controller) SetPercent(p burn.Percent) burn.Percent {
	p = p.Clamp()
	c.mu.Lock()
	c.percent = p
	c.mu.Unlock()
	return p
}

func (c *Controller) ToggleAdvanced() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advanced = !c.advanced
	return c.advanced
}

// SwitchChain selects another network and drops the loaded token and any
// lookup still in flight.
func (c *Controller) SwitchChain(chainID uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
	c.chainID = chainID
	c.address = ""
	c.state = StateIdle
	c.log.Infow("chain switched", "chain", chainID)
}

// Clear returns to Idle with no token or address.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
	c.address = ""
	c.state = StateIdle
}

// Burn sends the configured percentage of the loaded balance to the dead
// address and waits for inclusion. A rejected signature returns
// burn.ErrUserRejected without notifying. If ctx ends after the transaction
// was sent, the burn stays pending so Confirmed can still record it.
func (c *Controller) Burn(ctx context.Context) (*Outcome, error) {
	c.mu.Lock()
	switch c.state {
	case StateBurnPending, StateBurnConfirming:
		c.mu.Unlock()
		return nil, ErrBusy
	case StateLoaded:
	default:
		c.mu.Unlock()
		return nil, ErrNotLoaded
	}
	token := c.token.clone()
	percent := c.percent
	if token.Balance == nil || token.Balance.Sign() == 0 {
		c.mu.Unlock()
		c.notifier.Notify(notify.Notification{Severity: notify.Error, Title: msgZeroBalance})
		return nil, ErrZeroBalance
	}
	amount, err := burn.Calculate(token.Balance, percent)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.cancelResetLocked()
	c.state = StateBurnPending
	gen, chainID := c.gen, c.chainID
	c.mu.Unlock()

	sub, err := c.submitters(chainID)
	if err != nil {
		c.restoreLoaded(gen)
		return nil, fmt.Errorf("submitter for chain %d: %w", chainID, err)
	}

	c.log.Infow("burning", "token", token.Address.Hex(), "percent", percent.String(), "amount", amount.String())
	tx, err := sub.Submit(ctx, token.Address, amount)
	if errors.Is(err, burn.ErrUserRejected) {
		c.log.Infow("burn rejected by signer", "token", token.Address.Hex())
		c.restoreLoaded(gen)
		return nil, err
	}
	if err != nil {
		return nil, c.failed(gen, err)
	}

	p := &pendingBurn{hash: tx.Hash(), token: token, amount: amount, percent: percent, gen: gen}
	c.mu.Lock()
	if c.gen == gen {
		c.state = StateBurnConfirming
		c.pending = p
	}
	c.mu.Unlock()
	c.metrics.Submitted()
	c.notifier.Notify(notify.Notification{Severity: notify.Info, Title: "Burn submitted", Description: tx.Hash().Hex()})

	rcpt, err := sub.Wait(ctx, tx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		c.log.Warnw("stopped waiting for burn", "tx", tx.Hash().Hex(), "err", err)
		c.notifier.Notify(notify.Notification{Severity: notify.Warning, Title: msgUnconfirmedTitle, Description: tx.Hash().Hex()})
		return &Outcome{TxHash: tx.Hash(), Amount: amount}, err
	}
	if err != nil {
		return nil, c.failed(gen, err)
	}
	c.metrics.Confirmed()

	recorded, err := c.record(ctx, p)
	return &Outcome{TxHash: tx.Hash(), Amount: amount, Receipt: rcpt, Recorded: recorded}, err
}

func (c *Controller) restoreLoaded(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		c.state = StateLoaded
	}
}

func (c *Controller) failed(gen uint64, err error) error {
	fe := burn.ClassifyFailure(err)
	c.metrics.Failed(fe.Kind.String())
	c.log.Warnw("burn failed", "kind", fe.Kind.String(), "reason", fe.Reason)

	if fe.Kind == burn.KindLocked {
		c.notifier.Notify(notify.Notification{Severity: notify.Error, Title: msgLockedTitle, Description: msgLocked})
	} else {
		c.notifier.Notify(notify.Notification{Severity: notify.Error, Title: msgFailedTitle, Description: msgFailed})
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		c.state = StateLoaded
		c.pending = nil
		if fe.Retryable() {
			c.advanced = true
		}
	}
	return fe
}

// Confirmed records the pending burn identified by hash. It is safe to call
// more than once for the same hash; only the first call writes to the
// ledger. It reports whether an entry was written.
func (c *Controller) Confirmed(ctx context.Context, hash common.Hash) (bool, error) {
	c.mu.Lock()
	p := c.pending
	_, seen := c.processed[hash]
	c.mu.Unlock()
	if seen {
		c.metrics.Recorded("duplicate")
		return false, nil
	}
	if p == nil || p.hash != hash {
		return false, fmt.Errorf("%w: %s", ErrUnknownTx, hash.Hex())
	}
	return c.record(ctx, p)
}

func (c *Controller) record(ctx context.Context, p *pendingBurn) (bool, error) {
	c.mu.Lock()
	if _, seen := c.processed[p.hash]; seen {
		c.mu.Unlock()
		c.metrics.Recorded("duplicate")
		return false, nil
	}
	c.processed[p.hash] = struct{}{}
	if c.gen == p.gen {
		c.state = StateBurnConfirmed
	}
	c.mu.Unlock()

	defer c.scheduleReset(p.gen)

	txID := p.hash.Hex()
	if c.ledger.HasTx(txID) {
		c.log.Infow("burn already in history", "tx", txID)
		c.metrics.Recorded("duplicate")
		return false, nil
	}

	value := chain.ToFloat(p.amount, p.token.Decimals)
	if _, err := c.ledger.AddBurn(ctx, ledger.Burn{Name: p.token.Name, Symbol: p.token.Symbol, Value: value, TxID: txID}); err != nil {
		// Nothing was persisted; a later Confirmed may retry.
		c.mu.Lock()
		delete(c.processed, p.hash)
		c.mu.Unlock()
		c.log.Errorw("failed to record burn", "tx", txID, "err", err)
		c.notifier.Notify(notify.Notification{Severity: notify.Warning, Title: "Burn confirmed but history could not be saved", Description: err.Error()})
		return false, fmt.Errorf("record burn: %w", err)
	}
	c.metrics.Recorded("recorded")
	c.notifier.Notify(notify.Notification{
		Severity:    notify.Success,
		Title:       burnedTitle(p.token.Symbol),
		Description: fmt.Sprintf("%s %s (%s%% of your balance) sent to the burn address. %s", chain.FormatUnits(p.amount, p.token.Decimals), p.token.Symbol, p.percent, randomQuip()),
	})
	return true, nil
}

func (c *Controller) scheduleReset(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	c.cancelResetLocked()
	c.stopReset = c.afterFunc(c.resetDelay, func() { c.autoReset(gen) })
}

func (c *Controller) autoReset(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen || c.state != StateBurnConfirmed {
		return
	}
	c.stopReset = nil
	c.gen++
	c.token = nil
	c.pending = nil
	c.address = ""
	c.percent = burn.Full
	c.advanced = false
	c.state = StateIdle
	c.log.Debugw("burn form reset")
}
