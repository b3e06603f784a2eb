package core

import "testing"

func TestClassifyTier(t *testing.T) {
	tests := []struct {
		name      string
		osVersion int
		granted   bool
		want      Tier
	}{
		{"modern version, no grant", 33, false, TierModernPicker},
		{"modern version, granted", 33, true, TierModernPicker},
		{"above modern version", 35, false, TierModernPicker},
		{"legacy, granted", 28, true, TierLegacyUnpermissioned},
		{"legacy, not granted", 28, false, TierLegacyPermissioned},
		{"permission-free legacy, no grant", 29, false, TierLegacyUnpermissioned},
		{"permission-free legacy, top of range", 32, false, TierLegacyUnpermissioned},
		{"oldest supported, not granted", 21, false, TierLegacyPermissioned},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyTier(tc.osVersion, tc.granted, 0, 0)
			if got != tc.want {
				t.Errorf("ClassifyTier(%d, %v) = %s, want %s", tc.osVersion, tc.granted, got, tc.want)
			}
		})
	}
}

func TestClassifyTier_CustomThresholds(t *testing.T) {
	if got := ClassifyTier(30, false, 31, 25); got != TierLegacyUnpermissioned {
		t.Errorf("custom thresholds: got %s, want %s", got, TierLegacyUnpermissioned)
	}
	if got := ClassifyTier(31, false, 31, 25); got != TierModernPicker {
		t.Errorf("custom thresholds: got %s, want %s", got, TierModernPicker)
	}
	if got := ClassifyTier(24, false, 31, 25); got != TierLegacyPermissioned {
		t.Errorf("custom thresholds: got %s, want %s", got, TierLegacyPermissioned)
	}
}
