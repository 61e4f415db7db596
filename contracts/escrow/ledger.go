package escrow

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/openrights/escrow-contract/common"
	"github.com/openrights/escrow-contract/contracts/escrow/escrowconst"
)

type (
	// Contributor is the record of one account sponsoring new user accounts
	// of one application. RAM, NET and CPU sub-balances are independent:
	// only the RAM balance is part of the pooled aggregate.
	Contributor struct {
		Address interop.Hash160
		// Active storage balance.
		RAMBalance Amount
		// Share of one account's storage cost this contributor subsidizes,
		// 0 to 100.
		RAMPercent int
		NETBalance Amount
		CPUBalance Amount
		// TotalAccounts caps CreatedAccounts, -1 lifts the cap.
		TotalAccounts   int
		CreatedAccounts int
	}

	// LedgerEntry is the pooled balance of one application. Balance always
	// equals the sum of the RAM balances of all listed contributors.
	// Contributors keeps insertion order, selection depends on it.
	LedgerEntry struct {
		Origin       string
		Balance      Amount
		Contributors []interop.Hash160
		Timestamp    int
	}
)

const (
	ledgerPrefix      = 'l'
	contributorPrefix = 'c'

	registryContractKey     = "registryScriptHash"
	provisioningContractKey = "provisioningScriptHash"
	tokenContractKey        = "tokenScriptHash"
	symbolKey               = "tokenSymbol"
)

// config carries the contract wiring resolved from storage. It is passed
// explicitly to everything that needs it instead of being re-read along the
// way.
type config struct {
	registry     interop.Hash160
	provisioning interop.Hash160
	token        interop.Hash160
	symbol       string
}

func getConfig(ctx storage.Context) config {
	return config{
		registry:     storage.Get(ctx, registryContractKey).(interop.Hash160),
		provisioning: storage.Get(ctx, provisioningContractKey).(interop.Hash160),
		token:        storage.Get(ctx, tokenContractKey).(interop.Hash160),
		symbol:       storage.Get(ctx, symbolKey).(string),
	}
}

func (c config) amount(value int) Amount {
	return newAmount(value, c.symbol)
}

func (c config) zero() Amount {
	return Amount{Value: 0, Symbol: c.symbol}
}

// dappID produces the stable ledger key of an application name.
func dappID(dapp string) interop.Hash256 {
	return crypto.Sha256([]byte(dapp))
}

func ledgerKey(id interop.Hash256) []byte {
	return append([]byte{ledgerPrefix}, id...)
}

func contributorKey(id interop.Hash256, addr interop.Hash160) []byte {
	return append(append([]byte{contributorPrefix}, id...), addr...)
}

// getLedgerEntry fetches the entry stored under the application's ledger key
// and verifies the stored name: a key collision between two application
// names is a fault, never a silent merge.
func getLedgerEntry(ctx storage.Context, id interop.Hash256, dapp string) (LedgerEntry, bool) {
	data := storage.Get(ctx, ledgerKey(id))
	if data == nil {
		return LedgerEntry{}, false
	}

	entry := std.Deserialize(data.([]byte)).(LedgerEntry)
	if entry.Origin != dapp {
		panic(escrowconst.ErrDappMismatch + ": " + dapp)
	}

	return entry, true
}

func putLedgerEntry(ctx storage.Context, id interop.Hash256, entry LedgerEntry) {
	common.SetSerialized(ctx, ledgerKey(id), entry)
}

func getContributor(ctx storage.Context, id interop.Hash256, addr interop.Hash160) (Contributor, bool) {
	data := storage.Get(ctx, contributorKey(id, addr))
	if data == nil {
		return Contributor{}, false
	}

	return std.Deserialize(data.([]byte)).(Contributor), true
}

func putContributor(ctx storage.Context, id interop.Hash256, rec Contributor) {
	common.SetSerialized(ctx, contributorKey(id, rec.Address), rec)
}

func deleteContributor(ctx storage.Context, id interop.Hash256, addr interop.Hash160) {
	storage.Delete(ctx, contributorKey(id, addr))
}

// settleLedgerEntry stores the mutated entry back or erases it once the pool
// is drained and the last contributor is gone.
func settleLedgerEntry(ctx storage.Context, id interop.Hash256, entry LedgerEntry) {
	if len(entry.Contributors) == 0 && entry.Balance.Value <= 0 {
		storage.Delete(ctx, ledgerKey(id))
		return
	}

	putLedgerEntry(ctx, id, entry)
}

// addDeposit creates or tops up the contributor record and the pooled
// aggregate in one unit of work. ramPercent and totalAccounts replace the
// previously stored values and govern the contributor from now on.
func addDeposit(ctx storage.Context, dapp string, from interop.Hash160, ram, net, cpu Amount, ramPercent, totalAccounts int) {
	id := dappID(dapp)

	entry, ok := getLedgerEntry(ctx, id, dapp)
	if !ok {
		entry = LedgerEntry{
			Origin:       dapp,
			Balance:      ram,
			Contributors: []interop.Hash160{from},
			Timestamp:    runtime.GetTime(),
		}
		putContributor(ctx, id, Contributor{
			Address:       from,
			RAMBalance:    ram,
			RAMPercent:    ramPercent,
			NETBalance:    net,
			CPUBalance:    cpu,
			TotalAccounts: totalAccounts,
		})
		putLedgerEntry(ctx, id, entry)
		return
	}

	rec, found := getContributor(ctx, id, from)
	if found {
		rec.RAMBalance = rec.RAMBalance.add(ram)
		rec.NETBalance = rec.NETBalance.add(net)
		rec.CPUBalance = rec.CPUBalance.add(cpu)
		rec.RAMPercent = ramPercent
		rec.TotalAccounts = totalAccounts
	} else {
		rec = Contributor{
			Address:       from,
			RAMBalance:    ram,
			RAMPercent:    ramPercent,
			NETBalance:    net,
			CPUBalance:    cpu,
			TotalAccounts: totalAccounts,
		}
		entry.Contributors = append(entry.Contributors, from)
		entry.Timestamp = runtime.GetTime()
	}

	entry.Balance = entry.Balance.add(ram)

	putContributor(ctx, id, rec)
	putLedgerEntry(ctx, id, entry)
}

// debitRAM takes amount from both the contributor's RAM balance and the
// pooled aggregate. When the debit pays for an actual new account (rather
// than a plain balance move) the contributor's creation counter grows.
// A contributor with all three balances exhausted is dropped from the
// ledger.
func debitRAM(ctx storage.Context, dapp string, addr interop.Hash160, amount Amount, accountCreated bool) {
	id := dappID(dapp)

	entry, ok := getLedgerEntry(ctx, id, dapp)
	if !ok {
		panic(escrowconst.ErrNoLedgerEntry + ": " + dapp)
	}

	rec, found := getContributor(ctx, id, addr)
	if !found {
		panic(escrowconst.ErrContributorNotFound + ": " + dapp)
	}

	if entry.Balance.lessThan(amount) || rec.RAMBalance.lessThan(amount) {
		panic(escrowconst.ErrOverdrawn)
	}

	entry.Balance = entry.Balance.sub(amount)
	rec.RAMBalance = rec.RAMBalance.sub(amount)

	if accountCreated {
		rec.CreatedAccounts = rec.CreatedAccounts + 1
	}

	if rec.RAMBalance.Value <= 0 && rec.NETBalance.Value <= 0 && rec.CPUBalance.Value <= 0 {
		deleteContributor(ctx, id, addr)
		entry.Contributors = removeAddress(entry.Contributors, addr)
	} else {
		putContributor(ctx, id, rec)
	}

	settleLedgerEntry(ctx, id, entry)
}

// debitBandwidth takes amount from the NET or CPU sub-balance only, the
// pooled RAM aggregate is left alone.
func debitBandwidth(ctx storage.Context, dapp string, addr interop.Hash160, amount Amount, class string) {
	checkBandwidthClass(class)

	id := dappID(dapp)

	_, ok := getLedgerEntry(ctx, id, dapp)
	if !ok {
		panic(escrowconst.ErrNoLedgerEntry + ": " + dapp)
	}

	rec, found := getContributor(ctx, id, addr)
	if !found {
		panic(escrowconst.ErrContributorNotFound + ": " + dapp)
	}

	if class == escrowconst.NetClass {
		if rec.NETBalance.lessThan(amount) {
			panic(escrowconst.ErrOverdrawn)
		}
		rec.NETBalance = rec.NETBalance.sub(amount)
	} else {
		if rec.CPUBalance.lessThan(amount) {
			panic(escrowconst.ErrOverdrawn)
		}
		rec.CPUBalance = rec.CPUBalance.sub(amount)
	}

	putContributor(ctx, id, rec)
}

// contributionOf reports the stored balance of the given class. An unknown
// class is always a fault, while a missing ledger entry or contributor
// record is a normal outcome reported as zero, new applications and
// contributors legitimately start there.
func contributionOf(ctx storage.Context, cfg config, dapp string, addr interop.Hash160, class string) Amount {
	if class != "ram" && class != escrowconst.NetClass && class != escrowconst.CPUClass {
		panic(escrowconst.ErrBandwidthClass + ": " + class)
	}

	id := dappID(dapp)

	if _, ok := getLedgerEntry(ctx, id, dapp); !ok {
		runtime.Log(class + " contribution not found for " + dapp)
		return cfg.zero()
	}

	rec, found := getContributor(ctx, id, addr)
	if !found {
		runtime.Log(class + " contribution not found for " + dapp)
		return cfg.zero()
	}

	switch class {
	case "ram":
		return rec.RAMBalance
	case escrowconst.NetClass:
		return rec.NETBalance
	}

	return rec.CPUBalance
}

func checkBandwidthClass(class string) {
	if class != escrowconst.NetClass && class != escrowconst.CPUClass {
		panic(escrowconst.ErrBandwidthClass + ": " + class)
	}
}

func removeAddress(list []interop.Hash160, addr interop.Hash160) []interop.Hash160 {
	result := []interop.Hash160{}

	for i := range list {
		if !common.BytesEqual(list[i], addr) {
			result = append(result, list[i])
		}
	}

	return result
}
