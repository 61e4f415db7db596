// Package registry contains RPC wrappers for Registry contract.
package registry

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Dapp is a contract-specific registry.Dapp type used by its methods.
type Dapp struct {
	Owner       util.Uint160
	Origin      string
	RAMBytes    *big.Int
	NetAmount   *big.Int
	CpuAmount   *big.Int
	PriceTier   *big.Int
	UsesLending bool
	Custodians  []util.Uint160
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Get invokes `get` method of contract.
func (c *ContractReader) Get(dapp string) (*Dapp, error) {
	return itemToDapp(unwrap.Item(c.invoker.Call(c.hash, "get", dapp)))
}

// IsCustodian invokes `isCustodian` method of contract.
func (c *ContractReader) IsCustodian(dapp string, account util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isCustodian", dapp, account))
}

// MinAccountRAM invokes `minAccountRAM` method of contract.
func (c *ContractReader) MinAccountRAM() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "minAccountRAM"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Define creates a transaction invoking `define` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Define(owner util.Uint160, dapp string, ramBytes *big.Int, netAmount *big.Int, cpuAmount *big.Int, priceTier *big.Int, usesLending bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "define", owner, dapp, ramBytes, netAmount, cpuAmount, priceTier, usesLending)
}

// DefineTransaction creates a transaction invoking `define` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DefineTransaction(owner util.Uint160, dapp string, ramBytes *big.Int, netAmount *big.Int, cpuAmount *big.Int, priceTier *big.Int, usesLending bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "define", owner, dapp, ramBytes, netAmount, cpuAmount, priceTier, usesLending)
}

// DefineUnsigned creates a transaction invoking `define` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DefineUnsigned(owner util.Uint160, dapp string, ramBytes *big.Int, netAmount *big.Int, cpuAmount *big.Int, priceTier *big.Int, usesLending bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "define", nil, owner, dapp, ramBytes, netAmount, cpuAmount, priceTier, usesLending)
}

// Whitelist creates a transaction invoking `whitelist` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Whitelist(owner util.Uint160, custodian util.Uint160, dapp string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "whitelist", owner, custodian, dapp)
}

// WhitelistTransaction creates a transaction invoking `whitelist` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) WhitelistTransaction(owner util.Uint160, custodian util.Uint160, dapp string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "whitelist", owner, custodian, dapp)
}

// WhitelistUnsigned creates a transaction invoking `whitelist` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) WhitelistUnsigned(owner util.Uint160, custodian util.Uint160, dapp string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "whitelist", nil, owner, custodian, dapp)
}

// RemoveCustodian creates a transaction invoking `removeCustodian` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveCustodian(owner util.Uint160, custodian util.Uint160, dapp string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeCustodian", owner, custodian, dapp)
}

// RemoveCustodianTransaction creates a transaction invoking `removeCustodian` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemoveCustodianTransaction(owner util.Uint160, custodian util.Uint160, dapp string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removeCustodian", owner, custodian, dapp)
}

// RemoveCustodianUnsigned creates a transaction invoking `removeCustodian` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RemoveCustodianUnsigned(owner util.Uint160, custodian util.Uint160, dapp string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "removeCustodian", nil, owner, custodian, dapp)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nefFile, manifest, data)
}

func itemToDapp(item stackitem.Item, err error) (*Dapp, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Dapp)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Dapp from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Dapp) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 8 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Owner, err = func(item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	index++
	res.Origin, err = func(item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Origin: %w", err)
	}

	index++
	res.RAMBytes, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field RAMBytes: %w", err)
	}

	index++
	res.NetAmount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field NetAmount: %w", err)
	}

	index++
	res.CpuAmount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field CpuAmount: %w", err)
	}

	index++
	res.PriceTier, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field PriceTier: %w", err)
	}

	index++
	res.UsesLending, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field UsesLending: %w", err)
	}

	index++
	res.Custodians, err = func(item stackitem.Item) ([]util.Uint160, error) {
		arr, ok := item.Value().([]stackitem.Item)
		if !ok {
			return nil, errors.New("not an array")
		}
		res := make([]util.Uint160, len(arr))
		for i := range res {
			res[i], err = func(item stackitem.Item) (util.Uint160, error) {
				b, err := item.TryBytes()
				if err != nil {
					return util.Uint160{}, err
				}
				u, err := util.Uint160DecodeBytesBE(b)
				if err != nil {
					return util.Uint160{}, err
				}
				return u, nil
			}(arr[i])
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return res, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Custodians: %w", err)
	}

	return nil
}
