package escrow

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/openrights/escrow-contract/common"
	"github.com/openrights/escrow-contract/contracts/escrow/escrowconst"
)

// registeredDapp is a (sufficient) part of contracts/registry.Dapp to
// prevent cross-contract imports that may fail due to internal `_deploy`
// calls.
type registeredDapp struct {
	Owner       interop.Hash160
	Origin      string
	RAMBytes    int
	NetAmount   int
	CpuAmount   int
	PriceTier   int
	UsesLending bool
	// Other fields are irrelevant and therefore omitted.
}

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		addrRegistry     interop.Hash160
		addrProvisioning interop.Hash160
		addrToken        interop.Hash160
		symbol           string
	})

	if len(args.addrRegistry) != interop.Hash160Len ||
		len(args.addrProvisioning) != interop.Hash160Len ||
		len(args.addrToken) != interop.Hash160Len {
		panic("incorrect length of contract script hash")
	}
	if len(args.symbol) == 0 {
		panic("empty token symbol")
	}

	storage.Put(ctx, registryContractKey, args.addrRegistry)
	storage.Put(ctx, provisioningContractKey, args.addrProvisioning)
	storage.Put(ctx, tokenContractKey, args.addrToken)
	storage.Put(ctx, symbolKey, args.symbol)

	runtime.Log("escrow contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("escrow contract updated")
}

// OnNEP17Payment is the deposit entry point. Sponsors contribute by
// transferring the escrow token to the contract with attached deposit data:
//
//	[dapp, ramPercent, totalAccounts, netAmount, cpuAmount]
//
// where dapp is mandatory, ramPercent defaults to 100 for the free pool,
// totalAccounts defaults to -1 (no cap) and the bandwidth amounts to 0.
// The remainder of the transferred amount after the NET and CPU portions is
// the RAM contribution. Only the application owner and its whitelisted
// custodians may contribute to a registered application, the free pool is
// open to anyone.
//
// If the application borrows bandwidth instead of delegating it, the NET+CPU
// portion is forwarded to the provisioning contract before the ledger commit,
// so a rejected forward fails the whole deposit.
//
// It produces a Deposit notification.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetContext()
	cfg := getConfig(ctx)

	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(cfg.token) {
		common.AbortWithMessage("escrow contract accepts the configured escrow token only")
	}

	if data == nil {
		panic(escrowconst.ErrDepositData)
	}

	args := data.([]any)
	if len(args) == 0 {
		panic(escrowconst.ErrDepositData)
	}

	dapp := args[0].(string)

	ramPercent := escrowconst.MaxRAMPercent
	if dapp != escrowconst.FreePool {
		if len(args) < 2 {
			panic(escrowconst.ErrDepositData)
		}
		ramPercent = args[1].(int)
	}
	if ramPercent < 0 || ramPercent > escrowconst.MaxRAMPercent {
		panic(escrowconst.ErrDepositData)
	}

	totalAccounts := escrowconst.UnlimitedAccounts
	if len(args) > 2 {
		totalAccounts = args[2].(int)
	}
	if totalAccounts < escrowconst.UnlimitedAccounts || totalAccounts == 0 {
		panic(escrowconst.ErrDepositData)
	}

	netValue := 0
	if len(args) > 3 {
		netValue = args[3].(int)
	}
	cpuValue := 0
	if len(args) > 4 {
		cpuValue = args[4].(int)
	}
	if netValue < 0 || cpuValue < 0 || netValue+cpuValue > amount {
		panic(escrowconst.ErrDepositData)
	}

	d := getDapp(cfg, dapp)
	if !common.BytesEqual(from, d.Owner) && !isCustodian(cfg, dapp, from) &&
		dapp != escrowconst.FreePool {
		panic(escrowconst.ErrUnauthorized + ": " + dapp)
	}

	net := cfg.amount(netValue)
	cpu := cfg.amount(cpuValue)
	ram := cfg.amount(amount).sub(net).sub(cpu)

	if d.UsesLending && netValue+cpuValue > 0 {
		ok := contract.Call(cfg.token, "transfer", contract.All,
			runtime.GetExecutingScriptHash(), cfg.provisioning, netValue+cpuValue,
			common.LoanTransferDetails(dappID(dapp))).(bool)
		if !ok {
			panic(escrowconst.ErrTransferFailed)
		}
	}

	addDeposit(ctx, dapp, from, ram, net, cpu, ramPercent, totalAccounts)

	runtime.Notify("Deposit", from, dappID(dapp), ram.Value, netValue, cpuValue)
}

// CreateAccount provisions a new user account for an application, paying for
// its storage, network and compute allowances from the escrow. The payer is
// the account absorbing whatever part of the storage cost the pooled
// contributors do not cover. It must witness the transaction and be the
// application owner or a whitelisted custodian unless the application is the
// free pool.
//
// Pooled contributors are chosen pseudo-randomly (seeded from the new
// account name and the payer) and charged according to their declared
// subsidy percentages, at most 100% of the storage cost in total.
// Provisioning calls are issued before the ledger debits commit, both
// belong to the same unit of work: any rejection rolls back everything.
//
// It produces an AccountCreated notification.
func CreateAccount(payer interop.Hash160, account string, ownerKey, activeKey interop.PublicKey, dapp string) {
	ctx := storage.GetContext()
	cfg := getConfig(ctx)

	if len(account) == 0 {
		panic("empty account name")
	}
	if len(ownerKey) != interop.PublicKeyCompressedLen ||
		len(activeKey) != interop.PublicKeyCompressedLen {
		panic("incorrect public key length")
	}

	common.CheckWitness(payer)

	d := getDapp(cfg, dapp)
	checkSponsorAccess(cfg, dapp, d, payer)

	isFixed := d.RAMBytes == 0

	ram := cfg.amount(contract.Call(cfg.provisioning, "ramCost",
		contract.ReadOnly, d.RAMBytes, d.PriceTier).(int))

	var net, cpu Amount
	if isFixed {
		net = cfg.amount(contract.Call(cfg.provisioning, "fixedNetCost",
			contract.ReadOnly, d.PriceTier).(int))
		cpu = cfg.amount(contract.Call(cfg.provisioning, "fixedCpuCost",
			contract.ReadOnly, d.PriceTier).(int))
	} else {
		net = cfg.amount(d.NetAmount)
		cpu = cfg.amount(d.CpuAmount)

		debitAccountBandwidth(ctx, cfg, dapp, d, payer, net, cpu)
	}

	id := dappID(dapp)

	ramFromPayer := ram
	ramFromDapp := cfg.zero()
	chosen := []chosenContributor{}

	entry, ok := getLedgerEntry(ctx, id, dapp)
	if ok && ram.lessThan(entry.Balance) {
		seed := seedFromBytes(crypto.Sha256([]byte(account)))
		salt := seedFromBytes(payer)

		candidates := pickCandidates(ctx, id, entry, generateRandom(seed, salt))
		chosen = apportion(candidates, payer, ram)

		for i := range chosen {
			ramFromDapp = ramFromDapp.add(chosen[i].RAMPay)
		}

		ramFromPayer = ram.sub(ramFromDapp)
	}

	if ramFromPayer.Value > 0 {
		balance := contributionOf(ctx, cfg, dapp, payer, "ram")
		if balance.lessThan(ramFromPayer) {
			panic(escrowconst.ErrInsufficientFunds + ": " + dapp)
		}
	}

	contract.Call(cfg.provisioning, "createAccount", contract.All,
		account, ownerKey, activeKey)
	contract.Call(cfg.provisioning, "purchaseStorage", contract.All,
		account, ram.Value)

	if d.UsesLending {
		contract.Call(cfg.provisioning, "lendBandwidth", contract.All,
			account, net.Value, cpu.Value)
	} else if net.Value+cpu.Value > 0 {
		contract.Call(cfg.provisioning, "delegateBandwidth", contract.All,
			account, net.Value, cpu.Value)
	}

	if ramFromPayer.Value > 0 {
		debitRAM(ctx, dapp, payer, ramFromPayer, true)
	}
	for i := range chosen {
		debitRAM(ctx, dapp, chosen[i].Address, chosen[i].RAMPay, true)
	}

	runtime.Log("created account " + account)
	runtime.Notify("AccountCreated", account, id, payer, ram.Value, net.Value, cpu.Value)
}

// Reclaim returns the unused RAM contribution of an account for an
// application. The contributor record is removed entirely once its NET and
// CPU balances are also exhausted, and the application's ledger entry is
// erased when the last contributor leaves with a drained pool. The settled
// amount is transferred back through the escrow token contract and returned.
//
// It produces a Reclaim notification.
func Reclaim(contributor interop.Hash160, dapp string) int {
	ctx := storage.GetContext()
	cfg := getConfig(ctx)

	common.CheckOwnerWitness(contributor)

	id := dappID(dapp)

	entry, ok := getLedgerEntry(ctx, id, dapp)
	if !ok {
		panic(escrowconst.ErrNoContribution + ": " + dapp)
	}

	rec, found := getContributor(ctx, id, contributor)
	if !found {
		panic(escrowconst.ErrNoContribution + ": " + dapp)
	}

	settled := rec.RAMBalance

	if rec.NETBalance.Value <= 0 && rec.CPUBalance.Value <= 0 {
		deleteContributor(ctx, id, contributor)
		entry.Contributors = removeAddress(entry.Contributors, contributor)
	} else {
		rec.RAMBalance = cfg.zero()
		putContributor(ctx, id, rec)
	}

	entry.Balance = entry.Balance.sub(settled)
	settleLedgerEntry(ctx, id, entry)

	if settled.Value > 0 {
		ok := contract.Call(cfg.token, "transfer", contract.All,
			runtime.GetExecutingScriptHash(), contributor, settled.Value,
			common.ReclaimTransferDetails(id)).(bool)
		if !ok {
			panic(escrowconst.ErrTransferFailed)
		}
	}

	runtime.Notify("Reclaim", contributor, id, settled.Value)

	return settled.Value
}

// FundBandwidthLoan tops up an outstanding bandwidth loan of an existing
// user account through the provisioning contract and debits the
// contributor's NET or CPU sub-balance for the same amount. The contributor
// must witness the transaction and be the application owner or a custodian
// unless the application is the free pool.
//
// It produces a LoanFunded notification.
func FundBandwidthLoan(contributor interop.Hash160, account string, dapp string, amount int, class string) {
	ctx := storage.GetContext()
	cfg := getConfig(ctx)

	checkBandwidthClass(class)
	if amount <= 0 {
		panic(escrowconst.ErrNegativeAmount)
	}

	common.CheckWitness(contributor)

	d := getDapp(cfg, dapp)
	checkSponsorAccess(cfg, dapp, d, contributor)

	contract.Call(cfg.provisioning, "fundLoan", contract.All,
		account, amount, class)

	debitBandwidth(ctx, dapp, contributor, cfg.amount(amount), class)

	runtime.Notify("LoanFunded", contributor, dappID(dapp), amount, class)
}

// BalanceOf returns the stored balance of the given class ("ram", "net" or
// "cpu") contributed by the account for the application. Missing
// applications and contributors report zero, that is a normal starting
// state and not a fault.
func BalanceOf(dapp string, contributor interop.Hash160, class string) int {
	ctx := storage.GetReadOnlyContext()
	cfg := getConfig(ctx)

	return contributionOf(ctx, cfg, dapp, contributor, class).Value
}

// HasSufficientBalance reports whether the pooled RAM balance of the
// application strictly exceeds the required amount.
func HasSufficientBalance(dapp string, required int) bool {
	ctx := storage.GetReadOnlyContext()
	cfg := getConfig(ctx)

	entry, ok := getLedgerEntry(ctx, dappID(dapp), dapp)
	if !ok {
		return false
	}

	return cfg.amount(required).lessThan(entry.Balance)
}

// Entry returns the ledger entry of the application. It panics if the
// application has no pooled contributions.
func Entry(dapp string) LedgerEntry {
	ctx := storage.GetReadOnlyContext()

	entry, ok := getLedgerEntry(ctx, dappID(dapp), dapp)
	if !ok {
		panic(escrowconst.ErrNoLedgerEntry + ": " + dapp)
	}

	return entry
}

// SelectCandidates re-runs the deterministic contributor selection for the
// application with the given generator inputs and returns the resulting
// candidate ordering. The same contributor set, seed and salt always produce
// the same answer, so off-chain auditors can reproduce any past selection.
func SelectCandidates(dapp string, seed, salt int) []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()

	id := dappID(dapp)
	entry, ok := getLedgerEntry(ctx, id, dapp)
	if !ok {
		panic(escrowconst.ErrNoLedgerEntry + ": " + dapp)
	}

	candidates := pickCandidates(ctx, id, entry, generateRandom(seed, salt))

	addrs := []interop.Hash160{}
	for i := range candidates {
		addrs = append(addrs, candidates[i].Address)
	}

	return addrs
}

// Symbol returns the currency symbol of all escrow balances.
func Symbol() string {
	ctx := storage.GetReadOnlyContext()
	return getConfig(ctx).symbol
}

// Decimals returns the precision of all escrow balances.
func Decimals() int {
	return escrowconst.Decimals
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// pickCandidates maps a generated value onto the application's contributor
// list and loads the records of the deduplicated picks, preserving the
// selection order.
func pickCandidates(ctx storage.Context, id interop.Hash256, entry LedgerEntry, value int) []Contributor {
	indexes := selectIndexes(value, len(entry.Contributors))

	candidates := []Contributor{}
	for i := range indexes {
		rec, found := getContributor(ctx, id, entry.Contributors[indexes[i]])
		if found {
			candidates = append(candidates, rec)
		}
	}

	return candidates
}

// debitAccountBandwidth pays for a new account's bandwidth from the payer's
// NET and CPU sub-balances, falling back to the application owner's
// sub-balances when the payer has none for a class.
func debitAccountBandwidth(ctx storage.Context, cfg config, dapp string, d registeredDapp, payer interop.Hash160, net, cpu Amount) {
	netPayer := payer
	netBalance := contributionOf(ctx, cfg, dapp, payer, escrowconst.NetClass)
	if netBalance.isZero() {
		netPayer = d.Owner
		netBalance = contributionOf(ctx, cfg, dapp, d.Owner, escrowconst.NetClass)
	}

	cpuPayer := payer
	cpuBalance := contributionOf(ctx, cfg, dapp, payer, escrowconst.CPUClass)
	if cpuBalance.isZero() {
		cpuPayer = d.Owner
		cpuBalance = contributionOf(ctx, cfg, dapp, d.Owner, escrowconst.CPUClass)
	}

	if netBalance.lessThan(net) || cpuBalance.lessThan(cpu) {
		panic(escrowconst.ErrBandwidthBalance + ": " + dapp)
	}

	if net.Value > 0 {
		debitBandwidth(ctx, dapp, netPayer, net, escrowconst.NetClass)
	}
	if cpu.Value > 0 {
		debitBandwidth(ctx, dapp, cpuPayer, cpu, escrowconst.CPUClass)
	}
}

// checkSponsorAccess restricts spending operations to the application owner
// and its whitelisted custodians. The free pool is open to any account.
func checkSponsorAccess(cfg config, dapp string, d registeredDapp, account interop.Hash160) {
	if common.BytesEqual(account, d.Owner) {
		return
	}
	if isCustodian(cfg, dapp, account) {
		return
	}
	if dapp == escrowconst.FreePool {
		runtime.Log("using globally available free funds")
		return
	}

	panic(escrowconst.ErrUnauthorized + ": " + dapp)
}

func getDapp(cfg config, dapp string) registeredDapp {
	return contract.Call(cfg.registry, "get", contract.ReadOnly, dapp).(registeredDapp)
}

func isCustodian(cfg config, dapp string, account interop.Hash160) bool {
	return contract.Call(cfg.registry, "isCustodian", contract.ReadOnly,
		dapp, account).(bool)
}
