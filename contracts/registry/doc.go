/*
Package registry contains Registry contract which is deployed alongside the
Escrow contract. It holds per-application configuration: the owning account,
resource allowances for new user accounts, pricing tier, and the custodian
whitelist of accounts allowed to act on the owner's behalf. The Escrow
contract consults the Registry on every deposit and account creation.

# Contract notifications

Define notification. This notification is produced when an application is
registered or reconfigured.

	Define:
	  - name: dappID
	    type: Hash256
	  - name: owner
	    type: Hash160

Whitelist notification. This notification is produced when a custodian is
added to an application's whitelist.

	Whitelist:
	  - name: dappID
	    type: Hash256
	  - name: custodian
	    type: Hash160

# Contract storage scheme

All of the data stored in the contract is always serialized.

| Key                           | Value      | Description                            |
|-------------------------------|------------|----------------------------------------|
| `minAccountRAM`               | int        | minimum account storage, bytes         |
| `r` + SHA-256 of application  | Serialized | Dapp structure                         |
*/
package registry
