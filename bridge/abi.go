package bridge

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

//go:embed abi/*.json
var content embed.FS

var (
	mediatorABI                = mustLoadABI("abi/Mediator.json")
	mediatorLimitsABI          = mustLoadABI("abi/MediatorLimits.json")
	dedicatedMediatorLimitsABI = mustLoadABI("abi/DedicatedMediatorLimits.json")
	dedicatedMediatorABI       = mustLoadABI("abi/DedicatedMediator.json")
	feeManagerABI              = mustLoadABI("abi/FeeManager.json")
	nativeHelperABI            = mustLoadABI("abi/NativeHelper.json")
	erc677ABI                  = mustLoadABI("abi/ERC677.json")
	erc20ABI                   = mustLoadABI("abi/ERC20.json")
)

// contract methods
const (
	methodIsRegisteredAsNativeToken = "isRegisteredAsNativeToken"
	methodBridgedTokenAddress       = "bridgedTokenAddress"
	methodNativeTokenAddress        = "nativeTokenAddress"

	methodGetCurrentDay       = "getCurrentDay"
	methodMinPerTx            = "minPerTx"
	methodExecutionMaxPerTx   = "executionMaxPerTx"
	methodDailyLimit          = "dailyLimit"
	methodTotalSpentPerDay    = "totalSpentPerDay"
	methodExecutionDailyLimit = "executionDailyLimit"
	methodTotalExecutedPerDay = "totalExecutedPerDay"

	methodCalculateFee = "calculateFee"

	methodWrapAndRelayTokens = "wrapAndRelayTokens"
	methodTransferAndCall    = "transferAndCall"
	methodRelayTokens        = "relayTokens"
	methodRelayTokensAndCall = "relayTokensAndCall"

	methodName     = "name"
	methodSymbol   = "symbol"
	methodDecimals = "decimals"
)

func mustLoadABI(path string) *abi.ABI {
	bz, err := content.ReadFile(path)
	if err != nil {
		panic(fmt.Errorf("unable to read %s: %w", path, err))
	}
	parsed, err := abi.JSON(bytes.NewReader(bz))
	if err != nil {
		panic(fmt.Errorf("unable to parse %s: %w", path, err))
	}
	return &parsed
}
