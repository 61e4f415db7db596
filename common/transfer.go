package common

var (
	reclaimPrefix = []byte{0x01}
	loanPrefix    = []byte{0x02}
)

// ReclaimTransferDetails marks a token transfer reimbursing the unused
// contribution of an application sponsor.
func ReclaimTransferDetails(dappID []byte) []byte {
	return append(reclaimPrefix, dappID...)
}

// LoanTransferDetails marks a token transfer funding a bandwidth loan.
func LoanTransferDetails(dappID []byte) []byte {
	return append(loanPrefix, dappID...)
}
