package core

// Default version thresholds.  ModernPickerMinVersion is the first OS release
// shipping the system photo picker; PermissionFreeMinVersion is the first
// release where the legacy picker no longer needs a storage-read grant.
const (
	DefaultModernPickerMinVersion   = 33
	DefaultPermissionFreeMinVersion = 29
)

// ClassifyTier maps an OS version and the current permission state to the
// acquisition mechanism a gallery pick must use.  Pure; no platform access.
//
// Version thresholds of 0 fall back to the defaults above.
func ClassifyTier(osVersion int, permissionGranted bool, modernMin, permissionFreeMin int) Tier {
	if modernMin <= 0 {
		modernMin = DefaultModernPickerMinVersion
	}
	if permissionFreeMin <= 0 {
		permissionFreeMin = DefaultPermissionFreeMinVersion
	}
	switch {
	case osVersion >= modernMin:
		return TierModernPicker
	case permissionGranted || osVersion >= permissionFreeMin:
		return TierLegacyUnpermissioned
	default:
		return TierLegacyPermissioned
	}
}
