package bridge

import (
	"context"
	"errors"
	"math/big"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/strangelove-ventures/omnibridge-engine/relayer"
	"github.com/strangelove-ventures/omnibridge-engine/types"
)

// Fee types understood by the omnibridge fee manager.
var (
	HomeToForeignFee = crypto.Keccak256Hash([]byte("homeToForeignFee"))
	ForeignToHomeFee = crypto.Keccak256Hash([]byte("foreignToHomeFee"))
)

// FeeTypeFor returns the fee type charged for transfers leaving fromChainID.
func FeeTypeFor(dir types.BridgeDirectionConfig, fromChainID uint64) common.Hash {
	if dir.IsHome(fromChainID) {
		return HomeToForeignFee
	}
	return ForeignToHomeFee
}

// Fees estimates the amount delivered to the recipient after bridge fees.
type Fees struct {
	directory *types.Directory
	client    types.ChainClient
	logger    log.Logger
	metrics   *relayer.PromMetrics
}

func NewFees(
	directory *types.Directory,
	client types.ChainClient,
	logger log.Logger,
	metrics *relayer.PromMetrics,
) *Fees {
	return &Fees{
		directory: directory,
		client:    client,
		logger:    logger.With("component", "fees"),
		metrics:   metrics,
	}
}

// EstimateNetAmount returns amount minus the bridge fee, expressed in the
// destination token. Unresolved tokens or non-positive amounts give zero. A
// failed fee lookup returns amount unchanged.
func (f *Fees) EstimateNetAmount(
	ctx context.Context,
	direction string,
	feeType common.Hash,
	from, to *types.Token,
	amount *big.Int,
	feeManager *common.Address,
) *big.Int {
	if amount == nil || amount.Sign() <= 0 || from == nil || to == nil {
		return new(big.Int)
	}

	net, err := f.estimateNetAmount(ctx, direction, feeType, *from, *to, amount, feeManager)
	if err != nil {
		f.metrics.IncDegradedEstimates(direction, "fee")
		f.logger.Error("Unable to estimate bridge fee",
			"direction", direction, "chain_id", from.ChainID, "token", from.Address.Hex(),
			"err", errors.Join(types.ErrFeeEstimationDegraded, err))
		return new(big.Int).Set(amount)
	}
	return net
}

func (f *Fees) estimateNetAmount(
	ctx context.Context,
	direction string,
	feeType common.Hash,
	from, to types.Token,
	amount *big.Int,
	feeManager *common.Address,
) (*big.Int, error) {
	dir, err := f.directory.Direction(direction)
	if err != nil {
		return nil, err
	}

	// wrapping native currency is fee free, only precision changes
	if from.IsNative() || to.IsNative() {
		return Rescale(amount, from.Decimals, to.Decimals), nil
	}

	// fees are charged on the home side
	homeToken := from
	if dir.IsHome(to.ChainID) {
		homeToken = to
	}

	if homeToken.Mediator != dir.HomeMediatorAddress ||
		homeToken.Address == types.ZeroAddress ||
		feeManager == nil || *feeManager == types.ZeroAddress {
		return new(big.Int).Set(amount), nil
	}

	fee, err := callBig(ctx, f.client, dir.HomeChainID, *feeManager, feeManagerABI, methodCalculateFee,
		[32]byte(feeType), homeToken.Address, amount)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("Calculated bridge fee", "direction", direction, "token", homeToken.Address.Hex(), "fee", fee.String())

	return clampedSub(amount, fee), nil
}
