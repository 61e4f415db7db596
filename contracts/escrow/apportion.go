package escrow

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/openrights/escrow-contract/common"
	"github.com/openrights/escrow-contract/contracts/escrow/escrowconst"
)

// chosenContributor is the transient result of apportionment: a contributor
// together with the storage cost share it was assigned for one account
// creation. It is consumed immediately by the debit loop and never persisted.
type chosenContributor struct {
	Address interop.Hash160
	RAMPay  Amount
}

// apportion walks candidates in selection order and assigns each eligible one
// its declared share of the storage cost. Shares accumulate up to 100% of the
// cost, the contributor crossing the ceiling is clipped so the total caps
// exactly at 100. Candidates equal to the excluded payer or with an exhausted
// account creation cap are skipped, their share contributes nothing. Shares
// are converted with integer division, the fractional remainder stays with
// the direct payer.
func apportion(candidates []Contributor, excluded interop.Hash160, ramCost Amount) []chosenContributor {
	chosen := []chosenContributor{}
	total := 0

	for i := 0; i < len(candidates) && total < escrowconst.MaxRAMPercent; i++ {
		c := candidates[i]

		if common.BytesEqual(c.Address, excluded) {
			continue
		}

		if c.TotalAccounts != escrowconst.UnlimitedAccounts && c.CreatedAccounts >= c.TotalAccounts {
			continue
		}

		pct := c.RAMPercent
		total += pct

		if total > escrowconst.MaxRAMPercent {
			pct -= total - escrowconst.MaxRAMPercent
		}

		chosen = append(chosen, chosenContributor{
			Address: c.Address,
			RAMPay:  ramCost.scalePercent(pct),
		})
	}

	return chosen
}
