// Package escrow contains RPC wrappers for Escrow contract.
package escrow

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Amount is a contract-specific escrow.Amount type used by its methods.
type Amount struct {
	Value  *big.Int
	Symbol string
}

// LedgerEntry is a contract-specific escrow.LedgerEntry type used by its methods.
type LedgerEntry struct {
	Origin       string
	Balance      *Amount
	Contributors []util.Uint160
	Timestamp    *big.Int
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

// DappID returns the base58-encoded identifier the contract derives from an
// application name. It matches the dappID field of contract notifications.
func DappID(dapp string) string {
	id := sha256.Sum256([]byte(dapp))
	return base58.Encode(id[:])
}

// BalanceOf invokes `balanceOf` method of contract.
func (c *ContractReader) BalanceOf(dapp string, contributor util.Uint160, class string) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "balanceOf", dapp, contributor, class))
}

// HasSufficientBalance invokes `hasSufficientBalance` method of contract.
func (c *ContractReader) HasSufficientBalance(dapp string, required *big.Int) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "hasSufficientBalance", dapp, required))
}

// Entry invokes `entry` method of contract.
func (c *ContractReader) Entry(dapp string) (*LedgerEntry, error) {
	return itemToLedgerEntry(unwrap.Item(c.invoker.Call(c.hash, "entry", dapp)))
}

// SelectCandidates invokes `selectCandidates` method of contract.
func (c *ContractReader) SelectCandidates(dapp string, seed *big.Int, salt *big.Int) ([]util.Uint160, error) {
	return unwrap.ArrayOfUint160(c.invoker.Call(c.hash, "selectCandidates", dapp, seed, salt))
}

// Symbol invokes `symbol` method of contract.
func (c *ContractReader) Symbol() (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "symbol"))
}

// Decimals invokes `decimals` method of contract.
func (c *ContractReader) Decimals() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "decimals"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// CreateAccount creates a transaction invoking `createAccount` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreateAccount(payer util.Uint160, account string, ownerKey []byte, activeKey []byte, dapp string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createAccount", payer, account, ownerKey, activeKey, dapp)
}

// CreateAccountTransaction creates a transaction invoking `createAccount` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateAccountTransaction(payer util.Uint160, account string, ownerKey []byte, activeKey []byte, dapp string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "createAccount", payer, account, ownerKey, activeKey, dapp)
}

// CreateAccountUnsigned creates a transaction invoking `createAccount` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateAccountUnsigned(payer util.Uint160, account string, ownerKey []byte, activeKey []byte, dapp string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "createAccount", nil, payer, account, ownerKey, activeKey, dapp)
}

// Reclaim creates a transaction invoking `reclaim` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Reclaim(contributor util.Uint160, dapp string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "reclaim", contributor, dapp)
}

// ReclaimTransaction creates a transaction invoking `reclaim` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ReclaimTransaction(contributor util.Uint160, dapp string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "reclaim", contributor, dapp)
}

// ReclaimUnsigned creates a transaction invoking `reclaim` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ReclaimUnsigned(contributor util.Uint160, dapp string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "reclaim", nil, contributor, dapp)
}

// FundBandwidthLoan creates a transaction invoking `fundBandwidthLoan` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) FundBandwidthLoan(contributor util.Uint160, account string, dapp string, amount *big.Int, class string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "fundBandwidthLoan", contributor, account, dapp, amount, class)
}

// FundBandwidthLoanTransaction creates a transaction invoking `fundBandwidthLoan` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) FundBandwidthLoanTransaction(contributor util.Uint160, account string, dapp string, amount *big.Int, class string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "fundBandwidthLoan", contributor, account, dapp, amount, class)
}

// FundBandwidthLoanUnsigned creates a transaction invoking `fundBandwidthLoan` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) FundBandwidthLoanUnsigned(contributor util.Uint160, account string, dapp string, amount *big.Int, class string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "fundBandwidthLoan", nil, contributor, account, dapp, amount, class)
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

func itemToAmount(item stackitem.Item, err error) (*Amount, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Amount)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Amount from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Amount) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Value, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Value: %w", err)
	}

	index++
	res.Symbol, err = func(item stackitem.Item) (string, error) {
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
		return fmt.Errorf("field Symbol: %w", err)
	}

	return nil
}

func itemToLedgerEntry(item stackitem.Item, err error) (*LedgerEntry, error) {
	if err != nil {
		return nil, err
	}
	var res = new(LedgerEntry)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of LedgerEntry from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *LedgerEntry) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
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
	res.Balance, err = itemToAmount(arr[index], nil)
	if err != nil {
		return fmt.Errorf("field Balance: %w", err)
	}

	index++
	res.Contributors, err = func(item stackitem.Item) ([]util.Uint160, error) {
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
		return fmt.Errorf("field Contributors: %w", err)
	}

	index++
	res.Timestamp, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Timestamp: %w", err)
	}

	return nil
}
