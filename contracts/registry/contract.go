package registry

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/openrights/escrow-contract/common"
	"github.com/openrights/escrow-contract/contracts/registry/registryconst"
)

// Dapp is the registered configuration of one application. RAMBytes of 0
// marks fixed tier pricing where the provisioning contract quotes all
// resource costs by PriceTier.
type Dapp struct {
	Owner  interop.Hash160
	Origin string
	// Storage allowance of new user accounts, bytes.
	RAMBytes  int
	NetAmount int
	CpuAmount int
	PriceTier int
	// UsesLending switches bandwidth of new accounts from permanent
	// delegation to loans from the provisioning contract.
	UsesLending bool
	Custodians  []interop.Hash160
}

const (
	dappPrefix = 'r'

	minAccountRAMKey = "minAccountRAM"

	// FreePool mirrors the escrow contract's open pool name, definable by
	// committee only.
	freePool = "free"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		minRAMBytes int
	})

	if args.minRAMBytes <= 0 {
		panic("invalid minimum account ram")
	}

	storage.Put(ctx, minAccountRAMKey, args.minRAMBytes)

	runtime.Log("registry contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("registry contract updated")
}

// Define registers an application or updates the configuration of an
// existing one. Re-registration keeps the owner and the custodian whitelist.
// The account owning the application must witness the transaction, the free
// pool is defined by committee. A non-zero storage allowance below the
// platform minimum is rejected.
//
// It produces a Define notification.
func Define(owner interop.Hash160, dapp string, ramBytes, netAmount, cpuAmount, priceTier int, usesLending bool) {
	ctx := storage.GetContext()

	if dapp == freePool {
		if !common.HasUpdateAccess() {
			panic("only committee can define the free pool")
		}
	} else {
		common.CheckOwnerWitness(owner)
	}

	if netAmount < 0 || cpuAmount < 0 {
		panic("negative bandwidth amount")
	}

	minRAM := storage.Get(ctx, minAccountRAMKey).(int)
	if ramBytes != 0 && ramBytes < minRAM {
		panic(registryconst.ErrRAMTooSmall + ": " + std.Itoa(minRAM, 10) + " bytes")
	}

	id := dappID(dapp)

	d, ok := getDapp(ctx, id, dapp)
	if ok {
		if !common.BytesEqual(d.Owner, owner) {
			panic(registryconst.ErrAlreadyRegistered + ": " + dapp)
		}

		d.RAMBytes = ramBytes
		d.NetAmount = netAmount
		d.CpuAmount = cpuAmount
		d.PriceTier = priceTier
		d.UsesLending = usesLending
	} else {
		d = Dapp{
			Owner:       owner,
			Origin:      dapp,
			RAMBytes:    ramBytes,
			NetAmount:   netAmount,
			CpuAmount:   cpuAmount,
			PriceTier:   priceTier,
			UsesLending: usesLending,
			Custodians:  []interop.Hash160{},
		}
	}

	common.SetSerialized(ctx, dappKey(id), d)

	runtime.Notify("Define", id, owner)
}

// Whitelist adds a custodian account to the application's whitelist.
// Custodians may contribute to the escrow and create user accounts on the
// owner's behalf. Adding an already whitelisted account changes nothing.
//
// It produces a Whitelist notification.
func Whitelist(owner, custodian interop.Hash160, dapp string) {
	ctx := storage.GetContext()

	common.CheckOwnerWitness(owner)

	id := dappID(dapp)

	d, ok := getDapp(ctx, id, dapp)
	if !ok || !common.BytesEqual(d.Owner, owner) {
		panic(registryconst.ErrNotOwner + ": " + dapp)
	}

	for i := range d.Custodians {
		if common.BytesEqual(d.Custodians[i], custodian) {
			return
		}
	}

	d.Custodians = append(d.Custodians, custodian)
	common.SetSerialized(ctx, dappKey(id), d)

	runtime.Notify("Whitelist", id, custodian)
}

// RemoveCustodian drops a custodian account from the application's
// whitelist. Removing an unknown account changes nothing.
func RemoveCustodian(owner, custodian interop.Hash160, dapp string) {
	ctx := storage.GetContext()

	common.CheckOwnerWitness(owner)

	id := dappID(dapp)

	d, ok := getDapp(ctx, id, dapp)
	if !ok || !common.BytesEqual(d.Owner, owner) {
		panic(registryconst.ErrNotOwner + ": " + dapp)
	}

	left := []interop.Hash160{}
	for i := range d.Custodians {
		if !common.BytesEqual(d.Custodians[i], custodian) {
			left = append(left, d.Custodians[i])
		}
	}

	d.Custodians = left
	common.SetSerialized(ctx, dappKey(id), d)
}

// Get returns the registered configuration of the application. It panics if
// the application was never registered.
func Get(dapp string) Dapp {
	ctx := storage.GetReadOnlyContext()

	d, ok := getDapp(ctx, dappID(dapp), dapp)
	if !ok {
		panic(registryconst.ErrDappNotFound + ": " + dapp)
	}

	return d
}

// IsCustodian reports whether the account is whitelisted for the
// application. Unknown applications have no custodians.
func IsCustodian(dapp string, account interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()

	d, ok := getDapp(ctx, dappID(dapp), dapp)
	if !ok {
		return false
	}

	for i := range d.Custodians {
		if common.BytesEqual(d.Custodians[i], account) {
			return true
		}
	}

	return false
}

// MinAccountRAM returns the minimum storage allowance of new user accounts,
// bytes.
func MinAccountRAM() int {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, minAccountRAMKey).(int)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func dappID(dapp string) interop.Hash256 {
	return crypto.Sha256([]byte(dapp))
}

func dappKey(id interop.Hash256) []byte {
	return append([]byte{dappPrefix}, id...)
}

// getDapp fetches the application record and verifies the stored name, a
// ledger key collision between two names is a fault.
func getDapp(ctx storage.Context, id interop.Hash256, dapp string) (Dapp, bool) {
	data := storage.Get(ctx, dappKey(id))
	if data == nil {
		return Dapp{}, false
	}

	d := std.Deserialize(data.([]byte)).(Dapp)
	if d.Origin != dapp {
		panic("registry key collision for application: " + dapp)
	}

	return d, true
}
