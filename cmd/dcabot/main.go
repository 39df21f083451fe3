package main

import (
	"context"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/mkarpin/dcabot/internal/allowance"
	"github.com/mkarpin/dcabot/internal/config"
	"github.com/mkarpin/dcabot/internal/infra/chain"
	"github.com/mkarpin/dcabot/internal/infra/paraswap"
	"github.com/mkarpin/dcabot/internal/orchestrator"
	"github.com/mkarpin/dcabot/internal/scheduler"
	"github.com/mkarpin/dcabot/internal/submit"
	"github.com/mkarpin/dcabot/internal/swap"
	"github.com/mkarpin/dcabot/internal/vault"
	"github.com/mkarpin/dcabot/internal/wallet"
	"github.com/mkarpin/dcabot/pkg/logger"
)

const privateKeyEnv = "DCABOT_PRIVATE_KEY"

func main() {
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "cfg/config.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Str("path", path).Msg("config load failed")
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	hexKey := os.Getenv(privateKeyEnv)
	if hexKey == "" {
		log.Fatal().Msgf("%s is not set", privateKeyEnv)
	}

	signer, err := wallet.NewSigner(hexKey, big.NewInt(cfg.Chain.ID))
	if err != nil {
		log.Fatal().Err(err).Msg("wallet.NewSigner")
	}

	chainClient, err := chain.NewClient(context.Background(), cfg.Chain.RPCURL, cfg.Chain.ID)
	if err != nil {
		log.Fatal().Err(err).Str("rpc_url", cfg.Chain.RPCURL).Msg("chain.NewClient")
	}

	legacy := cfg.FeeMode == config.FeeModeLegacy

	engine := submit.NewEngine(chainClient, signer, cfg.ReceiptPollInterval, log)
	aggregator := paraswap.NewClient(cfg.ParaswapURL, cfg.Chain.ID, &http.Client{Timeout: cfg.RequestTimeout})
	manager := allowance.NewManager(chainClient, engine, cfg.ApprovalMultiplier, legacy, log)
	builder := swap.NewBuilder(
		aggregator,
		chainClient,
		cfg.SourceAsset,
		signer.Address(),
		cfg.SlippageBps,
		legacy,
		log,
	)

	var source orchestrator.LiquiditySource
	if cfg.VaultAddress != (common.Address{}) {
		source = vault.NewSource(
			chainClient,
			engine,
			cfg.VaultAddress,
			signer.Address(),
			cfg.MinGasUSD,
			cfg.NativeUSDPrice,
			legacy,
			log,
		)
	}

	orc := orchestrator.New(
		orchestrator.Config{
			SourceAsset:           cfg.SourceAsset,
			Amount:                cfg.Amount,
			Weights:               cfg.Weights,
			Owner:                 signer.Address(),
			Spender:               cfg.Spender,
			Network:               cfg.Chain.ID,
			PriceImpact:           cfg.PriceImpact,
			WithdrawShortfallOnly: cfg.WithdrawMode == config.WithdrawModeShortfall,
		},
		chainClient,
		source,
		aggregator,
		manager,
		builder,
		engine,
		log,
	)

	runOnce := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
		defer cancel()

		result, err := orc.Run(ctx)
		log.Info().
			Str("run", result.RunID.String()).
			Str("state", string(result.State)).
			Int("settled", len(result.Settled)).
			Msg("run finished")
		return err
	}

	if cfg.Schedule == "" {
		if err := runOnce(); err != nil {
			log.Error().Err(err).Msg("run aborted")
			os.Exit(1)
		}
		return
	}

	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.Schedule, scheduler.JobFunc{JobName: "rebalance", Fn: runOnce}); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Schedule).Msg("sched.AddJob")
	}
	sched.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	sched.Stop()
}
