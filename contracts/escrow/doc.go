/*
Package escrow implements the Escrow contract.

The contract holds pooled deposits made by application sponsors and spends
them on provisioning new user accounts: storage quota, network and compute
bandwidth allowances. Per application it tracks exactly how much every
contributor has put in and how much has been consumed, split into
independent RAM, NET and CPU sub-balances. The cost of one account creation
is spread pseudo-randomly across the contributor pool according to the
subsidy percentages the contributors declared, never exceeding 100% of the
cost and never overdrawing anyone's balance.

Applications are registered in the Registry contract, actual resource
purchases and account creation are delegated to the platform's provisioning
contract, deposits and reimbursements move through a NEP-17 escrow token.
All three are wired in on deploy.

# Contract notifications

Deposit notification. Produced when a sponsor contribution is recorded.

	Deposit:
	  - name: from
	    type: Hash160
	  - name: dappID
	    type: Hash256
	  - name: ram
	    type: Integer
	  - name: net
	    type: Integer
	  - name: cpu
	    type: Integer

AccountCreated notification. Produced when a new user account is
provisioned and paid for.

	AccountCreated:
	  - name: account
	    type: String
	  - name: dappID
	    type: Hash256
	  - name: payer
	    type: Hash160
	  - name: ram
	    type: Integer
	  - name: net
	    type: Integer
	  - name: cpu
	    type: Integer

Reclaim notification. Produced when a contributor withdraws its unused
balance.

	Reclaim:
	  - name: contributor
	    type: Hash160
	  - name: dappID
	    type: Hash256
	  - name: amount
	    type: Integer

LoanFunded notification. Produced when a bandwidth loan is topped up from a
contributor's sub-balance.

	LoanFunded:
	  - name: contributor
	    type: Hash160
	  - name: dappID
	    type: Hash256
	  - name: amount
	    type: Integer
	  - name: class
	    type: String
*/
package escrow

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'l' + [32]byte -> std.Serialize(LedgerEntry)
   pooled balance of one application keyed by SHA-256 of its name (here
   LedgerEntry is a structure defined in current package)
 - 'c' + [32]byte + [20]byte -> std.Serialize(Contributor)
   per-contributor sub-balances within one application keyed by the
   application key and the contributor's address
 - 'registryScriptHash' -> interop.Hash160
   Registry contract reference
 - 'provisioningScriptHash' -> interop.Hash160
   provisioning contract reference
 - 'tokenScriptHash' -> interop.Hash160
   escrow token contract reference
 - 'tokenSymbol' -> string
   currency symbol of all escrow balances

# Accounting
LedgerEntry.Balance always equals the sum of the RAM balances of the
contributor records listed in it, both are mutated only together within one
transaction.
*/
