package ethereum

import (
	"crypto/ecdsa"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type JsonError interface {
	Error() string
	ErrorCode() int
	ErrorData() interface{}
}

// GetEcdsaKeyAddress returns the ecdsa key and address given the private key
func GetEcdsaKeyAddress(privateKey string) (*ecdsa.PrivateKey, common.Address, error) {
	privEcdsaKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
	if err != nil {
		return nil, common.Address{}, errors.New("unable to convert private key hex to ecdsa")
	}

	publicKey := privEcdsaKey.Public()
	publicKeyECDSA, ok := publicKey.(*ecdsa.PublicKey)
	if !ok {
		return nil, common.Address{}, errors.New("error casting public key to ECDSA")
	}

	return privEcdsaKey, crypto.PubkeyToAddress(*publicKeyECDSA), nil
}
