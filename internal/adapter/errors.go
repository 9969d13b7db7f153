package adapter

import "errors"

// Capability errors are terminal for a whole scan and surface as
// ScanResult.Error. Everything below them (a DNS timeout, a closed port)
// degrades silently instead.
var (
	// ErrPrivilege indicates the process lacks raw-frame access
	ErrPrivilege = errors.New("raw socket access denied - run with elevated privileges")

	// ErrNoInterface indicates no usable IPv4 interface was found
	ErrNoInterface = errors.New("no usable network interface")

	// ErrNmapUnavailable indicates the nmap binary is missing
	ErrNmapUnavailable = errors.New("nmap not found in PATH")
)

// IsCapabilityError reports whether err is one of the terminal scan errors
func IsCapabilityError(err error) bool {
	return errors.Is(err, ErrPrivilege) ||
		errors.Is(err, ErrNoInterface) ||
		errors.Is(err, ErrNmapUnavailable)
}
