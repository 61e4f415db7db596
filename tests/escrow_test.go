package tests

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/openrights/escrow-contract/common"
	"github.com/openrights/escrow-contract/contracts/escrow/escrowconst"
	"github.com/stretchr/testify/require"
)

func signerKey(s neotest.Signer) []byte {
	return s.(neotest.SingleSigner).Account().PrivateKey().PublicKey().Bytes()
}

func bandwidthRecord(account string, net, cpu int64) stackitem.Item {
	return stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteArray([]byte(account)),
		stackitem.Make(net),
		stackitem.Make(cpu),
	})
}

func TestEscrowDeposit(t *testing.T) {
	env := newEscrowEnv(t)

	owner := env.escrow.NewAccount(t)
	env.defineDapp(t, owner, "mydapp", 2048, 0, 0)

	env.deposit(t, owner, 10_000, []interface{}{"mydapp", 60, 5, 1_000, 500})

	require.EqualValues(t, 8_500, env.balanceOf(t, "mydapp", owner, "ram"))
	require.EqualValues(t, 1_000, env.balanceOf(t, "mydapp", owner, "net"))
	require.EqualValues(t, 500, env.balanceOf(t, "mydapp", owner, "cpu"))
	require.EqualValues(t, 8_500, env.poolBalance(t, "mydapp"))

	// A second deposit tops up the same records.
	env.deposit(t, owner, 1_500, []interface{}{"mydapp", 60})
	require.EqualValues(t, 10_000, env.balanceOf(t, "mydapp", owner, "ram"))
	require.EqualValues(t, 10_000, env.poolBalance(t, "mydapp"))

	// Only the owner and whitelisted custodians may contribute.
	stranger := env.escrow.NewAccount(t)
	env.depositFail(t, escrowconst.ErrUnauthorized, stranger, 1_000, []interface{}{"mydapp", 50})

	custodian := env.escrow.NewAccount(t)
	env.registry.WithSigners(owner).Invoke(t, stackitem.Null{}, "whitelist",
		owner.ScriptHash(), custodian.ScriptHash(), "mydapp")
	env.deposit(t, custodian, 2_000, []interface{}{"mydapp", 40})
	require.EqualValues(t, 2_000, env.balanceOf(t, "mydapp", custodian, "ram"))
	require.EqualValues(t, 12_000, env.poolBalance(t, "mydapp"))
}

func TestEscrowDepositFreePool(t *testing.T) {
	env := newEscrowEnv(t)

	env.registry.Invoke(t, stackitem.Null{}, "define",
		env.registry.CommitteeHash, "free", 2048, 0, 0, 1, false)

	// The free pool is open to any account.
	stranger := env.escrow.NewAccount(t)
	env.deposit(t, stranger, 5_000, []interface{}{"free"})

	require.EqualValues(t, 5_000, env.balanceOf(t, "free", stranger, "ram"))
	require.EqualValues(t, 5_000, env.poolBalance(t, "free"))
}

func TestEscrowDepositBadData(t *testing.T) {
	env := newEscrowEnv(t)

	owner := env.escrow.NewAccount(t)
	env.defineDapp(t, owner, "mydapp", 2048, 0, 0)

	env.depositFail(t, escrowconst.ErrDepositData, owner, 1_000, nil)
	env.depositFail(t, escrowconst.ErrDepositData, owner, 1_000, []interface{}{})
	// Percentage outside 0..100.
	env.depositFail(t, escrowconst.ErrDepositData, owner, 1_000, []interface{}{"mydapp", 101})
	// Zero account cap is meaningless.
	env.depositFail(t, escrowconst.ErrDepositData, owner, 1_000, []interface{}{"mydapp", 50, 0})
	// Bandwidth exceeding the transferred amount.
	env.depositFail(t, escrowconst.ErrDepositData, owner, 1_000, []interface{}{"mydapp", 50, -1, 900, 200})
}

func TestEscrowCreateAccount(t *testing.T) {
	env := newEscrowEnv(t)

	owner := env.escrow.NewAccount(t)
	env.defineDapp(t, owner, "mydapp", 1024, 0, 0)
	env.deposit(t, owner, 250_000, []interface{}{"mydapp", 0})

	account := uuid.NewString()
	key := signerKey(owner)

	cOwner := env.escrow.WithSigners(owner)
	h := cOwner.Invoke(t, stackitem.Null{}, "createAccount",
		owner.ScriptHash(), account, key, key, "mydapp")

	aer := cOwner.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "AccountCreated", aer.Events[0].Name)

	env.provisioning.Invoke(t, true, "accountExists", account)
	env.provisioning.Invoke(t, 100_000, "storageTotal")

	require.EqualValues(t, 150_000, env.balanceOf(t, "mydapp", owner, "ram"))
	require.EqualValues(t, 150_000, env.poolBalance(t, "mydapp"))

	// The platform never allows duplicate account names.
	cOwner.InvokeFail(t, "account already exists", "createAccount",
		owner.ScriptHash(), account, key, key, "mydapp")

	cOwner.Invoke(t, stackitem.Null{}, "createAccount",
		owner.ScriptHash(), uuid.NewString(), key, key, "mydapp")
	require.EqualValues(t, 50_000, env.poolBalance(t, "mydapp"))

	// The remaining pool does not cover a third account, and the rejected
	// creation debits nothing.
	cOwner.InvokeFail(t, escrowconst.ErrInsufficientFunds, "createAccount",
		owner.ScriptHash(), uuid.NewString(), key, key, "mydapp")
	require.EqualValues(t, 50_000, env.balanceOf(t, "mydapp", owner, "ram"))
	require.EqualValues(t, 50_000, env.poolBalance(t, "mydapp"))
	env.provisioning.Invoke(t, 200_000, "storageTotal")

	// Only the owner and custodians act for a registered application.
	stranger := env.escrow.NewAccount(t)
	env.escrow.WithSigners(stranger).InvokeFail(t, escrowconst.ErrUnauthorized, "createAccount",
		stranger.ScriptHash(), uuid.NewString(), key, key, "mydapp")
}

func TestEscrowCreateAccountApportions(t *testing.T) {
	env := newEscrowEnv(t)

	owner := env.escrow.NewAccount(t)
	alice := env.escrow.NewAccount(t)
	bob := env.escrow.NewAccount(t)

	env.defineDapp(t, owner, "mydapp", 1024, 0, 0)
	for _, custodian := range []neotest.Signer{alice, bob} {
		env.registry.WithSigners(owner).Invoke(t, stackitem.Null{}, "whitelist",
			owner.ScriptHash(), custodian.ScriptHash(), "mydapp")
	}

	env.deposit(t, owner, 100_000, []interface{}{"mydapp", 0})
	env.deposit(t, alice, 200_000, []interface{}{"mydapp", 60})
	env.deposit(t, bob, 200_000, []interface{}{"mydapp", 70})
	require.EqualValues(t, 500_000, env.poolBalance(t, "mydapp"))

	account := uuid.NewString()
	key := signerKey(owner)

	env.escrow.WithSigners(owner).Invoke(t, stackitem.Null{}, "createAccount",
		owner.ScriptHash(), account, key, key, "mydapp")

	env.provisioning.Invoke(t, true, "accountExists", account)

	// Whoever was selected, the pool as a whole pays exactly the storage
	// cost of one account.
	require.EqualValues(t, 400_000, env.poolBalance(t, "mydapp"))

	sum := env.balanceOf(t, "mydapp", owner, "ram") +
		env.balanceOf(t, "mydapp", alice, "ram") +
		env.balanceOf(t, "mydapp", bob, "ram")
	require.EqualValues(t, 400_000, sum)
}

func TestEscrowSelectCandidatesDeterministic(t *testing.T) {
	env := newEscrowEnv(t)

	owner := env.escrow.NewAccount(t)
	alice := env.escrow.NewAccount(t)

	env.defineDapp(t, owner, "mydapp", 1024, 0, 0)
	env.registry.WithSigners(owner).Invoke(t, stackitem.Null{}, "whitelist",
		owner.ScriptHash(), alice.ScriptHash(), "mydapp")

	env.deposit(t, owner, 100_000, []interface{}{"mydapp", 50})
	env.deposit(t, alice, 100_000, []interface{}{"mydapp", 50})

	accountHash := sha256.Sum256([]byte("someaccount"))
	seed := int64(binary.BigEndian.Uint32(accountHash[:4]))
	salt := int64(binary.BigEndian.Uint32(owner.ScriptHash().BytesBE()[:4]))

	first, err := env.escrow.TestInvoke(t, "selectCandidates", "mydapp", seed, salt)
	require.NoError(t, err)
	second, err := env.escrow.TestInvoke(t, "selectCandidates", "mydapp", seed, salt)
	require.NoError(t, err)

	require.Equal(t, first.Top().Array(), second.Top().Array())

	env.escrow.InvokeFail(t, escrowconst.ErrNoLedgerEntry, "selectCandidates", "unknown", seed, salt)
}

func TestEscrowReclaim(t *testing.T) {
	env := newEscrowEnv(t)

	owner := env.escrow.NewAccount(t)
	env.defineDapp(t, owner, "mydapp", 1024, 0, 0)
	env.deposit(t, owner, 50_000, []interface{}{"mydapp", 50})

	cOwner := env.escrow.WithSigners(owner)
	cOwner.Invoke(t, 50_000, "reclaim", owner.ScriptHash(), "mydapp")

	// The last contributor left with a drained pool, the entry is gone.
	env.escrow.InvokeFail(t, escrowconst.ErrNoLedgerEntry, "entry", "mydapp")
	require.EqualValues(t, 0, env.balanceOf(t, "mydapp", owner, "ram"))

	cOwner.InvokeFail(t, escrowconst.ErrNoContribution, "reclaim", owner.ScriptHash(), "mydapp")
}

func TestEscrowReclaimKeepsBandwidth(t *testing.T) {
	env := newEscrowEnv(t)

	owner := env.escrow.NewAccount(t)
	env.defineDapp(t, owner, "mydapp", 1024, 0, 0)
	env.deposit(t, owner, 10_000, []interface{}{"mydapp", 50, -1, 4_000, 0})

	cOwner := env.escrow.WithSigners(owner)
	cOwner.Invoke(t, 6_000, "reclaim", owner.ScriptHash(), "mydapp")

	// The record survives because the NET balance is still funded.
	require.EqualValues(t, 0, env.balanceOf(t, "mydapp", owner, "ram"))
	require.EqualValues(t, 4_000, env.balanceOf(t, "mydapp", owner, "net"))

	// Nothing left to settle, but no fault either.
	cOwner.Invoke(t, 0, "reclaim", owner.ScriptHash(), "mydapp")
}

func TestEscrowReclaimRequiresWitness(t *testing.T) {
	env := newEscrowEnv(t)

	owner := env.escrow.NewAccount(t)
	env.defineDapp(t, owner, "mydapp", 1024, 0, 0)
	env.deposit(t, owner, 10_000, []interface{}{"mydapp", 50})

	stranger := env.escrow.NewAccount(t)
	env.escrow.WithSigners(stranger).InvokeFail(t, common.ErrOwnerWitnessFailed,
		"reclaim", owner.ScriptHash(), "mydapp")
}

func TestEscrowHasSufficientBalance(t *testing.T) {
	env := newEscrowEnv(t)

	owner := env.escrow.NewAccount(t)
	env.defineDapp(t, owner, "mydapp", 1024, 0, 0)

	env.escrow.Invoke(t, false, "hasSufficientBalance", "mydapp", 1)

	env.deposit(t, owner, 1_000, []interface{}{"mydapp", 50})

	env.escrow.Invoke(t, true, "hasSufficientBalance", "mydapp", 999)
	// The comparison is strict.
	env.escrow.Invoke(t, false, "hasSufficientBalance", "mydapp", 1_000)
	env.escrow.Invoke(t, false, "hasSufficientBalance", "mydapp", 1_001)
}

func TestEscrowBalanceOfUnknownClass(t *testing.T) {
	env := newEscrowEnv(t)

	owner := env.escrow.NewAccount(t)
	env.defineDapp(t, owner, "mydapp", 1024, 0, 0)

	// An unknown class is a fault whether or not the records exist.
	env.escrow.InvokeFail(t, escrowconst.ErrBandwidthClass,
		"balanceOf", "mydapp", owner.ScriptHash(), "disk")
	env.escrow.InvokeFail(t, escrowconst.ErrBandwidthClass,
		"balanceOf", "unknown", owner.ScriptHash(), "disk")

	env.deposit(t, owner, 1_000, []interface{}{"mydapp", 50})
	env.escrow.InvokeFail(t, escrowconst.ErrBandwidthClass,
		"balanceOf", "mydapp", owner.ScriptHash(), "disk")
}

func TestEscrowDelegatedBandwidth(t *testing.T) {
	env := newEscrowEnv(t)

	owner := env.escrow.NewAccount(t)
	env.defineDapp(t, owner, "mydapp", 1024, 100, 50)
	env.deposit(t, owner, 151_500, []interface{}{"mydapp", 0, -1, 1_000, 500})

	account := uuid.NewString()
	key := signerKey(owner)

	env.escrow.WithSigners(owner).Invoke(t, stackitem.Null{}, "createAccount",
		owner.ScriptHash(), account, key, key, "mydapp")

	env.provisioning.Invoke(t, bandwidthRecord(account, 100, 50), "delegated", account)

	require.EqualValues(t, 900, env.balanceOf(t, "mydapp", owner, "net"))
	require.EqualValues(t, 450, env.balanceOf(t, "mydapp", owner, "cpu"))
}

func TestEscrowLending(t *testing.T) {
	env := newEscrowEnv(t)

	owner := env.escrow.NewAccount(t)
	env.defineLendingDapp(t, owner, "lendapp")

	// The NET+CPU portion is forwarded to the provisioning contract at
	// deposit time.
	env.deposit(t, owner, 50_000, []interface{}{"lendapp", 100, -1, 10_000, 5_000})
	env.provisioning.Invoke(t, 15_000, "depositTotal")
	require.EqualValues(t, 35_000, env.balanceOf(t, "lendapp", owner, "ram"))

	account := uuid.NewString()
	key := signerKey(owner)

	env.escrow.WithSigners(owner).Invoke(t, stackitem.Null{}, "createAccount",
		owner.ScriptHash(), account, key, key, "lendapp")

	env.provisioning.Invoke(t, true, "accountExists", account)
	// Fixed tier pricing: createPrice less the fixed bandwidth part.
	env.provisioning.Invoke(t, 20_000, "storageTotal")
	env.provisioning.Invoke(t, bandwidthRecord(account, fixedNetPrice, fixedCpuPrice), "lent", account)

	require.EqualValues(t, 15_000, env.balanceOf(t, "lendapp", owner, "ram"))

	cOwner := env.escrow.WithSigners(owner)
	cOwner.Invoke(t, stackitem.Null{}, "fundBandwidthLoan",
		owner.ScriptHash(), account, "lendapp", 3_000, "net")

	env.provisioning.Invoke(t, bandwidthRecord(account, 3_000, 0), "loanFunding", account)
	require.EqualValues(t, 7_000, env.balanceOf(t, "lendapp", owner, "net"))

	cOwner.InvokeFail(t, escrowconst.ErrBandwidthClass, "fundBandwidthLoan",
		owner.ScriptHash(), account, "lendapp", 1_000, "ram")
}
