package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ligun0805/token-inferno/internal/burn"
	"github.com/ligun0805/token-inferno/internal/chain"
	"github.com/ligun0805/token-inferno/internal/classifier"
	"github.com/ligun0805/token-inferno/internal/config"
	"github.com/ligun0805/token-inferno/internal/ledger"
	"github.com/ligun0805/token-inferno/internal/metrics"
	"github.com/ligun0805/token-inferno/internal/notify"
	"github.com/ligun0805/token-inferno/internal/storage"
	"github.com/ligun0805/token-inferno/internal/storage/file"
	"github.com/ligun0805/token-inferno/internal/storage/memory"
	"github.com/ligun0805/token-inferno/internal/storage/postgres"
	"github.com/ligun0805/token-inferno/internal/workflow"
)

// app holds everything a command needs, built from env settings.
type app struct {
	cfg      config.Settings
	log      *zap.SugaredLogger
	metrics  *metrics.Metrics
	networks []chain.Network
	closers  []func()
}

func newApp() (*app, error) {
	cfg := config.Load()
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	overrides, err := chain.ParseRPCOverrides(cfg.RPCURLs)
	if err != nil {
		return nil, fmt.Errorf("RPC_URLS: %w", err)
	}
	a := &app{
		cfg:      cfg,
		log:      log,
		networks: chain.WithRPCOverrides(chain.DefaultNetworks(), overrides),
	}
	a.closers = append(a.closers, func() { _ = log.Sync() })

	reg := prometheus.NewRegistry()
	a.metrics = metrics.New(reg)
	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: metrics.Handler(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warnw("metrics server stopped", "addr", cfg.MetricsAddr, "err", err)
			}
		}()
		a.closers = append(a.closers, func() { _ = srv.Close() })
		log.Infow("serving metrics", "addr", cfg.MetricsAddr)
	}
	return a, nil
}

func newLogger(level string) (*zap.SugaredLogger, error) {
	if level == "debug" {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		return l.Sugar(), nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	l, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *app) chainID(flag uint64) uint64 {
	if flag != 0 {
		return flag
	}
	return a.cfg.ChainID
}

func (a *app) openStore(ctx context.Context) (storage.Store, error) {
	switch a.cfg.StoreBackend {
	case config.BackendMemory:
		return memory.NewKVStore(), nil
	case config.BackendPostgres:
		if a.cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is empty")
		}
		pool, err := postgres.NewPool(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		st := postgres.NewKVStore(pool)
		if err := st.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return st, nil
	case config.BackendFile, "":
		st, err := file.NewKVStore(a.cfg.StoreDir)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
	return nil, fmt.Errorf("unknown STORE_BACKEND %q", a.cfg.StoreBackend)
}

func (a *app) openLedger(ctx context.Context) (*ledger.Ledger, error) {
	st, err := a.openStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return ledger.Open(ctx, st, ledger.WithLogger(a.log.Named("ledger")))
}

// owner resolves the account whose balance is read: the burn key if set,
// else OWNER_ADDRESS.
func (a *app) owner() (common.Address, error) {
	if pk := strings.TrimSpace(a.cfg.PrivateKeyHex); pk != "" {
		prv, err := gethcrypto.HexToECDSA(strings.TrimPrefix(pk, "0x"))
		if err != nil {
			return common.Address{}, fmt.Errorf("BURN_PRIVATE_KEY: %w", err)
		}
		return gethcrypto.PubkeyToAddress(prv.PublicKey), nil
	}
	if common.IsHexAddress(a.cfg.OwnerAddress) {
		return common.HexToAddress(a.cfg.OwnerAddress), nil
	}
	if a.cfg.OwnerAddress != "" {
		return common.Address{}, fmt.Errorf("OWNER_ADDRESS %q is not an address", a.cfg.OwnerAddress)
	}
	return common.Address{}, nil
}

func (a *app) gasPolicy() burn.GasPolicy {
	g := burn.DefaultGasPolicy()
	g.BufferPct = a.cfg.GasBufferPct
	g.BaseMul = a.cfg.BasefeeMul
	g.FallbackTip = new(big.Int).Mul(big.NewInt(a.cfg.TipGwei), big.NewInt(1_000_000_000))
	return g
}

// submitters dials the selected network on demand and signs with pkHex.
func (a *app) submitters(pkHex string, confirm burn.Confirmer) workflow.SubmitterFactory {
	return func(chainID uint64) (workflow.Submitter, error) {
		var n chain.Network
		found := false
		for _, x := range a.networks {
			if x.ID == chainID {
				n, found = x, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %d", chain.ErrUnknownChain, chainID)
		}
		ec, err := ethclient.Dial(n.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", n.Name, err)
		}
		a.closers = append(a.closers, ec.Close)
		opts, err := burn.NewTransactorFromHex(pkHex, new(big.Int).SetUint64(chainID))
		if err != nil {
			return nil, err
		}
		return burn.NewSubmitter(ec, opts, confirm,
			burn.WithGasPolicy(a.gasPolicy()),
			burn.WithSubmitterLogger(a.log.Named("submitter")),
		), nil
	}
}

// controller wires the reader, classifier and ledger into a workflow.
// submitters may be nil for read-only commands.
func (a *app) controller(chainID uint64, owner common.Address, l workflow.Ledger, submitters workflow.SubmitterFactory) *workflow.Controller {
	reader := chain.NewReader(a.networks,
		chain.WithLogger(a.log.Named("chain")),
		chain.WithMaxConcurrency(a.cfg.ReadConcurrency),
	)
	return workflow.New(workflow.Config{
		ChainID:    chainID,
		Owner:      owner,
		Reader:     reader,
		Classifier: classifier.NewHeuristic(reader, a.log.Named("classifier")),
		Submitters: submitters,
		Ledger:     l,
		Notifier:   notify.Multi{notify.NewConsole(os.Stdout), notify.NewLogger(a.log.Named("notify"))},
		Metrics:    a.metrics,
		Logger:     a.log.Named("workflow"),
		ResetDelay: a.cfg.ResetDelay,
	})
}
