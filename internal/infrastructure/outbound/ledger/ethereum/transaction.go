package ethereum

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"

	"rollup-blog-service/internal/domain/custom_errors"
	ports "rollup-blog-service/internal/domain/ports/output"
)

type transaction struct {
	tx      *types.Transaction
	backend bind.DeployBackend
	log     ports.Logger
	metrics ports.MetricsProvider
}

func (t *transaction) Hash() string {
	return t.tx.Hash().Hex()
}

func (t *transaction) Wait(ctx context.Context) error {
	start := time.Now()
	receipt, err := bind.WaitMined(ctx, t.backend, t.tx)
	t.metrics.RecordLedgerCallDuration("wait_mined", time.Since(start))
	if err != nil {
		t.metrics.IncrementLedgerCalls("wait_mined", false)
		return fmt.Errorf("%w: waiting for %s: %v", custom_errors.ErrLedgerCall, t.Hash(), err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		t.metrics.IncrementLedgerCalls("wait_mined", false)
		t.log.Warn("Ledger transaction reverted",
			slog.String("tx_hash", t.Hash()),
			slog.Uint64("block", receipt.BlockNumber.Uint64()))
		return fmt.Errorf("%w: %s", custom_errors.ErrTransactionReverted, t.Hash())
	}

	t.metrics.IncrementLedgerCalls("wait_mined", true)
	t.log.Info("Ledger transaction confirmed",
		slog.String("tx_hash", t.Hash()),
		slog.Uint64("block", receipt.BlockNumber.Uint64()),
		slog.Uint64("gas_used", receipt.GasUsed))
	return nil
}
