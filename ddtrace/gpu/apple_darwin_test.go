//go:build darwin && arm64

package gpu

import "testing"

func TestEnergyRawToJoulesUnitLabels(t *testing.T) {
	cases := []struct {
		name string
		raw  uint64
		unit string
		want float64
	}{
		{"millijoules", 1000, "mJ", 1.0},
		{"microjoules", 1_000_000, "uJ", 1.0},
		{"microjoules_mu_sign", 1_000_000, "µJ", 1.0},
		{"nanojoules", 1_000_000_000, "nJ", 1.0},
		{"unknown_unit_defaults_to_milli", 1000, "", 1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := energyRawToJoules(tc.raw, tc.unit)
			if got != tc.want {
				t.Fatalf("energyRawToJoules(%d, %q) = %v, want %v", tc.raw, tc.unit, got, tc.want)
			}
		})
	}
}
