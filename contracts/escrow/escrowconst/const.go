package escrowconst

const (
	// FreePool is the distinguished application name representing globally
	// available, ownerless contributions usable by any account creation.
	FreePool = "free"

	// UnlimitedAccounts disables the per-contributor account creation cap.
	UnlimitedAccounts = -1

	// MaxRAMPercent is the ceiling for the total storage cost share picked up
	// by pooled contributors for one account creation.
	MaxRAMPercent = 100

	// Decimals is the precision of all escrow balances.
	Decimals = 4

	// NetClass and CPUClass name the two bandwidth sub-balances of a
	// contributor.
	NetClass = "net"
	CPUClass = "cpu"

	// ErrNoLedgerEntry is returned when the requested application has no
	// ledger entry at all.
	ErrNoLedgerEntry = "no ledger entry for application"
	// ErrContributorNotFound is returned when the application is known but
	// the account never contributed to it.
	ErrContributorNotFound = "account is not a contributor for application"
	// ErrOverdrawn is returned on an attempt to debit more than the recorded
	// balance. The transaction is aborted, no partial debit happens.
	ErrOverdrawn = "overdrawn balance"
	// ErrUnauthorized is returned when the caller is neither the application
	// owner nor a whitelisted custodian and the application is not the free
	// pool.
	ErrUnauthorized = "only owner or whitelisted accounts can act for application"
	// ErrNoContribution is returned by reclaim when there is nothing to
	// return.
	ErrNoContribution = "no remaining contribution"
	// ErrSymbolMismatch is returned on arithmetic between amounts of
	// different currency symbols. It indicates a defect in the caller.
	ErrSymbolMismatch = "amount symbol mismatch"
	// ErrNegativeAmount is returned when an operation would produce or
	// accept a negative amount where it is not allowed.
	ErrNegativeAmount = "negative amount"
	// ErrDappMismatch is returned when the stored application name does not
	// match the requested one under the same ledger key. Such a hash
	// collision is a fault, colliding applications are never merged.
	ErrDappMismatch = "ledger key collision for application"
	// ErrBandwidthBalance is returned when the payer (and the application
	// owner as a fallback) cannot cover the bandwidth cost of a new account.
	ErrBandwidthBalance = "not enough net or cpu balance to pay for account bandwidth"
	// ErrInsufficientFunds is returned when neither the payer balance nor
	// pooled contributions cover the storage cost of a new account.
	ErrInsufficientFunds = "not enough balance to pay for account creation"
	// ErrBandwidthClass is returned on a bandwidth class outside {net, cpu}.
	ErrBandwidthClass = "unknown bandwidth class"
	// ErrDepositData is returned when a token transfer to the contract
	// carries no parsable deposit designation.
	ErrDepositData = "invalid deposit data"
	// ErrTransferFailed is returned when the escrow token contract refuses
	// a settlement transfer.
	ErrTransferFailed = "token transfer failed"
)
