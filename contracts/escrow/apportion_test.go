package escrow

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/openrights/escrow-contract/contracts/escrow/escrowconst"
	"github.com/stretchr/testify/require"
)

const testSymbol = "GAS"

func testAmount(value int) Amount {
	return Amount{Value: value, Symbol: testSymbol}
}

func testContributor(addr byte, pct int) Contributor {
	return Contributor{
		Address:       interop.Hash160{addr},
		RAMPercent:    pct,
		TotalAccounts: escrowconst.UnlimitedAccounts,
	}
}

func TestApportionClipsAtFullCost(t *testing.T) {
	alice := testContributor(1, 60)
	bob := testContributor(2, 70)

	chosen := apportion([]Contributor{alice, bob}, interop.Hash160{0xff}, testAmount(100000))
	require.Len(t, chosen, 2)

	require.Equal(t, alice.Address, chosen[0].Address)
	require.Equal(t, 60000, chosen[0].RAMPay.Value)

	// Bob's 70% is clipped to the remaining 40%.
	require.Equal(t, bob.Address, chosen[1].Address)
	require.Equal(t, 40000, chosen[1].RAMPay.Value)
}

func TestApportionStopsAtFullCost(t *testing.T) {
	chosen := apportion([]Contributor{
		testContributor(1, 100),
		testContributor(2, 50),
	}, interop.Hash160{0xff}, testAmount(100000))

	require.Len(t, chosen, 1)
	require.Equal(t, 100000, chosen[0].RAMPay.Value)
}

func TestApportionSkipsExcluded(t *testing.T) {
	payer := testContributor(1, 100)
	other := testContributor(2, 30)

	chosen := apportion([]Contributor{payer, other}, payer.Address, testAmount(100000))
	require.Len(t, chosen, 1)
	require.Equal(t, other.Address, chosen[0].Address)
	require.Equal(t, 30000, chosen[0].RAMPay.Value)
}

func TestApportionSkipsExhaustedCap(t *testing.T) {
	capped := testContributor(1, 100)
	capped.TotalAccounts = 3
	capped.CreatedAccounts = 3

	open := testContributor(2, 25)
	open.TotalAccounts = 3
	open.CreatedAccounts = 2

	chosen := apportion([]Contributor{capped, open}, interop.Hash160{0xff}, testAmount(100000))
	require.Len(t, chosen, 1)
	require.Equal(t, open.Address, chosen[0].Address)
	require.Equal(t, 25000, chosen[0].RAMPay.Value)
}

func TestApportionRoundsDown(t *testing.T) {
	chosen := apportion([]Contributor{testContributor(1, 33)},
		interop.Hash160{0xff}, testAmount(101))

	require.Len(t, chosen, 1)
	require.Equal(t, 33, chosen[0].RAMPay.Value)
}

func TestApportionEmptyCandidates(t *testing.T) {
	require.Empty(t, apportion(nil, interop.Hash160{0xff}, testAmount(100000)))
}
