package registryconst

const (
	// ErrDappNotFound is returned when the requested application was never
	// registered.
	ErrDappNotFound = "application is not registered"
	// ErrAlreadyRegistered is returned on an attempt to re-register an
	// application owned by another account.
	ErrAlreadyRegistered = "application is already registered by another account"
	// ErrNotOwner is returned when a registry mutation is requested by an
	// account that does not own the application.
	ErrNotOwner = "application is not owned by account"
	// ErrRAMTooSmall is returned when the configured storage allowance for
	// new accounts is below the platform minimum.
	ErrRAMTooSmall = "ram for new accounts must be equal to or greater than the minimum"
)
