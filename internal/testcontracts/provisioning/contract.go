/*
Package provisioning implements a test contract standing in for the platform
provisioning service. It quotes resource prices and records every account
creation, storage purchase, bandwidth delegation and loan it receives so
tests can assert on them.
*/
package provisioning

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// BandwidthRecord is one delegation, lending or loan funding call.
type BandwidthRecord struct {
	Account string
	Net     int
	Cpu     int
}

const (
	ramPriceKey    = "ramPrice"
	createPriceKey = "createPrice"
	fixedNetKey    = "fixedNet"
	fixedCpuKey    = "fixedCpu"

	depositTotalKey = "depositTotal"
	storageTotalKey = "storageTotal"

	accountPrefix   = 'a'
	delegatedPrefix = 'd'
	lentPrefix      = 'l'
	loanPrefix      = 'f'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		return
	}

	args := data.(struct {
		ramPricePerKiB int
		createPrice    int
		fixedNet       int
		fixedCpu       int
	})

	ctx := storage.GetContext()
	storage.Put(ctx, ramPriceKey, args.ramPricePerKiB)
	storage.Put(ctx, createPriceKey, args.createPrice)
	storage.Put(ctx, fixedNetKey, args.fixedNet)
	storage.Put(ctx, fixedCpuKey, args.fixedCpu)
}

// RamCost quotes the price of the given storage allowance. Zero bytes marks
// fixed tier pricing where the quote is the creation price less the fixed
// bandwidth part.
func RamCost(bytes, tier int) int {
	ctx := storage.GetReadOnlyContext()
	if bytes == 0 {
		total := storage.Get(ctx, createPriceKey).(int) * tier
		return total - FixedNetCost(tier) - FixedCpuCost(tier)
	}
	return bytes * storage.Get(ctx, ramPriceKey).(int) / 1024
}

// FixedNetCost quotes the network bandwidth part of fixed tier pricing.
func FixedNetCost(tier int) int {
	return storage.Get(storage.GetReadOnlyContext(), fixedNetKey).(int) * tier
}

// FixedCpuCost quotes the processing bandwidth part of fixed tier pricing.
func FixedCpuCost(tier int) int {
	return storage.Get(storage.GetReadOnlyContext(), fixedCpuKey).(int) * tier
}

// CreateAccount records a new account. An already recorded name is a fault,
// the platform never allows duplicate account names.
func CreateAccount(account string, ownerKey, activeKey interop.PublicKey) {
	ctx := storage.GetContext()
	key := append([]byte{accountPrefix}, []byte(account)...)
	if storage.Get(ctx, key) != nil {
		panic("account already exists: " + account)
	}
	storage.Put(ctx, key, ownerKey)
}

// PurchaseStorage records a storage purchase for the account.
func PurchaseStorage(account string, amount int) {
	ctx := storage.GetContext()
	total := 0
	if val := storage.Get(ctx, storageTotalKey); val != nil {
		total = val.(int)
	}
	storage.Put(ctx, storageTotalKey, total+amount)
}

// DelegateBandwidth records a permanent bandwidth delegation.
func DelegateBandwidth(account string, netAmount, cpuAmount int) {
	putBandwidth(delegatedPrefix, account, netAmount, cpuAmount)
}

// LendBandwidth records a bandwidth loan opened for the account.
func LendBandwidth(account string, netAmount, cpuAmount int) {
	putBandwidth(lentPrefix, account, netAmount, cpuAmount)
}

// FundLoan records a top up of the account's bandwidth loan of the given
// class, "net" or "cpu".
func FundLoan(account string, amount int, class string) {
	if class == "net" {
		putBandwidth(loanPrefix, account, amount, 0)
	} else if class == "cpu" {
		putBandwidth(loanPrefix, account, 0, amount)
	} else {
		panic("unknown bandwidth class: " + class)
	}
}

// OnNEP17Payment accepts lending funds forwarded by the escrow contract.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetContext()
	total := 0
	if val := storage.Get(ctx, depositTotalKey); val != nil {
		total = val.(int)
	}
	storage.Put(ctx, depositTotalKey, total+amount)
}

// AccountExists reports whether the account name was recorded.
func AccountExists(account string) bool {
	key := append([]byte{accountPrefix}, []byte(account)...)
	return storage.Get(storage.GetReadOnlyContext(), key) != nil
}

// StorageTotal returns the sum of all recorded storage purchases.
func StorageTotal() int {
	return total(storageTotalKey)
}

// DepositTotal returns the sum of all forwarded lending funds.
func DepositTotal() int {
	return total(depositTotalKey)
}

// Delegated returns the bandwidth delegated to the account.
func Delegated(account string) BandwidthRecord {
	return getBandwidth(delegatedPrefix, account)
}

// Lent returns the bandwidth lent to the account.
func Lent(account string) BandwidthRecord {
	return getBandwidth(lentPrefix, account)
}

// LoanFunding returns the loan top ups recorded for the account.
func LoanFunding(account string) BandwidthRecord {
	return getBandwidth(loanPrefix, account)
}

func total(key string) int {
	val := storage.Get(storage.GetReadOnlyContext(), key)
	if val == nil {
		return 0
	}
	return val.(int)
}

func putBandwidth(prefix byte, account string, netAmount, cpuAmount int) {
	ctx := storage.GetContext()
	key := append([]byte{prefix}, []byte(account)...)

	rec := BandwidthRecord{Account: account}
	if val := storage.Get(ctx, key); val != nil {
		rec = std.Deserialize(val.([]byte)).(BandwidthRecord)
	}
	rec.Net += netAmount
	rec.Cpu += cpuAmount

	storage.Put(ctx, key, std.Serialize(rec))
}

func getBandwidth(prefix byte, account string) BandwidthRecord {
	key := append([]byte{prefix}, []byte(account)...)
	val := storage.Get(storage.GetReadOnlyContext(), key)
	if val == nil {
		return BandwidthRecord{Account: account}
	}
	return std.Deserialize(val.([]byte)).(BandwidthRecord)
}
