package service

// VaultState names the position of the client vault gate.
type VaultState int

const (
	// StateUnknown means neither server nor cache has been probed yet.
	StateUnknown VaultState = iota
	// StateNoProfile means no encryption profile is enrolled anywhere.
	StateNoProfile
	// StateLocked means a profile exists but no session key is cached.
	StateLocked
	// StateUnlocked means the DEK is cached in memory and record IO is
	// possible.
	StateUnlocked
)

// String implements fmt.Stringer.
func (s VaultState) String() string {
	switch s {
	case StateNoProfile:
		return "no profile"
	case StateLocked:
		return "locked"
	case StateUnlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}
