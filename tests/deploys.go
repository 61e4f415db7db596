package tests

import (
	"math/big"
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

const (
	escrowPath       = "../contracts/escrow"
	registryPath     = "../contracts/registry"
	provisioningPath = "../internal/testcontracts/provisioning"
)

// Pricing used by the provisioning test contract. With a 1024-byte storage
// allowance one account creation costs exactly ramPricePerKiB.
const (
	minAccountRAM  = 1024
	ramPricePerKiB = 100_000
	createPrice    = 30_000
	fixedNetPrice  = 5_000
	fixedCpuPrice  = 5_000
)

func deployRegistryContract(t *testing.T, e *neotest.Executor) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, registryPath, path.Join(registryPath, "config.yml"))
	e.DeployContract(t, c, []interface{}{minAccountRAM})
	return c.Hash
}

func deployProvisioningContract(t *testing.T, e *neotest.Executor) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, provisioningPath, path.Join(provisioningPath, "config.yml"))
	e.DeployContract(t, c, []interface{}{ramPricePerKiB, createPrice, fixedNetPrice, fixedCpuPrice})
	return c.Hash
}

func deployEscrowContract(t *testing.T, e *neotest.Executor, addrRegistry, addrProvisioning, addrToken util.Uint160) util.Uint160 {
	args := make([]interface{}, 4)
	args[0] = addrRegistry
	args[1] = addrProvisioning
	args[2] = addrToken
	args[3] = "GAS"

	c := neotest.CompileFile(t, e.CommitteeHash, escrowPath, path.Join(escrowPath, "config.yml"))
	e.DeployContract(t, c, args)
	return c.Hash
}

// escrowEnv bundles the deployed contract set of one test chain.
type escrowEnv struct {
	e *neotest.Executor

	escrow       *neotest.ContractInvoker
	registry     *neotest.ContractInvoker
	provisioning *neotest.ContractInvoker

	escrowHash util.Uint160
	gasHash    util.Uint160
}

func newEscrowEnv(t *testing.T) *escrowEnv {
	e := newExecutor(t)

	gasHash := e.NativeHash(t, nativenames.Gas)
	addrRegistry := deployRegistryContract(t, e)
	addrProvisioning := deployProvisioningContract(t, e)
	addrEscrow := deployEscrowContract(t, e, addrRegistry, addrProvisioning, gasHash)

	return &escrowEnv{
		e:            e,
		escrow:       e.CommitteeInvoker(addrEscrow),
		registry:     e.CommitteeInvoker(addrRegistry),
		provisioning: e.CommitteeInvoker(addrProvisioning),
		escrowHash:   addrEscrow,
		gasHash:      gasHash,
	}
}

// defineDapp registers an application owned by the given account with
// delegated bandwidth pricing.
func (env *escrowEnv) defineDapp(t *testing.T, owner neotest.Signer, dapp string, ramBytes, netAmount, cpuAmount int) {
	env.registry.WithSigners(owner).Invoke(t, stackitem.Null{}, "define",
		owner.ScriptHash(), dapp, ramBytes, netAmount, cpuAmount, 1, false)
}

// defineLendingDapp registers an application with fixed tier pricing and
// borrowed bandwidth.
func (env *escrowEnv) defineLendingDapp(t *testing.T, owner neotest.Signer, dapp string) {
	env.registry.WithSigners(owner).Invoke(t, stackitem.Null{}, "define",
		owner.ScriptHash(), dapp, 0, 0, 0, 1, true)
}

// deposit transfers GAS from the account to the escrow contract with the
// attached deposit designation.
func (env *escrowEnv) deposit(t *testing.T, from neotest.Signer, amount int64, data []interface{}) {
	gas := env.e.CommitteeInvoker(env.gasHash).WithSigners(from)
	gas.Invoke(t, true, "transfer", from.ScriptHash(), env.escrowHash, amount, data)
}

// depositFail submits the same transfer expecting the deposit hook to abort
// the whole transaction.
func (env *escrowEnv) depositFail(t *testing.T, msg string, from neotest.Signer, amount int64, data []interface{}) {
	gas := env.e.CommitteeInvoker(env.gasHash).WithSigners(from)
	gas.InvokeFail(t, msg, "transfer", from.ScriptHash(), env.escrowHash, amount, data)
}

func (env *escrowEnv) balanceOf(t *testing.T, dapp string, contributor neotest.Signer, class string) int64 {
	res, err := env.escrow.TestInvoke(t, "balanceOf", dapp, contributor.ScriptHash(), class)
	if err != nil {
		t.Fatal(err)
	}
	return res.Top().BigInt().Int64()
}

// poolBalance returns the aggregate RAM balance of the application's ledger
// entry.
func (env *escrowEnv) poolBalance(t *testing.T, dapp string) int64 {
	res, err := env.escrow.TestInvoke(t, "entry", dapp)
	if err != nil {
		t.Fatal(err)
	}
	entry := res.Top().Array()
	amount := entry[1].Value().([]stackitem.Item)
	return amount[0].Value().(*big.Int).Int64()
}
