package ethereum

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"

	"rollup-blog-service/internal/domain/custom_errors"
)

// Messages nodes use when a call or gas estimation hits a revert.
var revertMarkers = []string{
	"execution reverted",
	"vm execution error",
	"revert",
}

// Messages signers and wallets use when the user or policy declines.
var rejectMarkers = []string{
	"user denied",
	"user rejected",
	"request rejected",
	"denied transaction",
}

func classifyCallError(err error) error {
	if isUnavailable(err) {
		return fmt.Errorf("%w: %v", custom_errors.ErrLedgerUnavailable, err)
	}
	if errors.Is(err, bind.ErrNoCode) {
		return fmt.Errorf("%w: no contract deployed at configured address", custom_errors.ErrLedgerCall)
	}
	return fmt.Errorf("%w: %v", custom_errors.ErrLedgerCall, err)
}

func classifyTransactError(err error) error {
	if isUnavailable(err) {
		return fmt.Errorf("%w: %v", custom_errors.ErrLedgerUnavailable, err)
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range rejectMarkers {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %v", custom_errors.ErrTransactionRejected, err)
		}
	}
	for _, marker := range revertMarkers {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %v", custom_errors.ErrTransactionReverted, err)
		}
	}
	return fmt.Errorf("%w: %v", custom_errors.ErrTransactionRejected, err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
