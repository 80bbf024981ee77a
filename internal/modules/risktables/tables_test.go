package risktables

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsCoverAllProfiles(t *testing.T) {
	tables := Defaults()

	for profile, index := range Profiles {
		rate, ok := tables.BaseRate(profile)
		require.True(t, ok, "missing rate for %s", profile)
		assert.Greater(t, rate, 0.0)

		_, ok = tables.InsuranceAmount(profile)
		assert.True(t, ok, "missing insurance for %s", profile)

		for _, term := range []int{12, 24, 36, 48, 60, 72} {
			frac, ok := tables.MinDown(index, term)
			require.True(t, ok, "missing min down for index %d term %d", index, term)
			assert.Greater(t, frac, 0.0)
			assert.Less(t, frac, 1.0)
		}
	}

	// Rates and down payments tighten with risk.
	aaa, _ := tables.BaseRate("AAA")
	d, _ := tables.BaseRate("D")
	assert.Less(t, aaa, d)
}

func TestLoadWithoutPathReturnsDefaults(t *testing.T) {
	tables, err := Load("", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), tables)
}

func TestLoadPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"interest_rates":{"A":0.30}}`), 0644))

	tables, err := Load(path, zerolog.Nop())
	require.NoError(t, err)

	rate, ok := tables.BaseRate("A")
	require.True(t, ok)
	assert.InDelta(t, 0.30, rate, 1e-12)

	// Tables the file omits keep their defaults.
	assert.Equal(t, Defaults().MinDownPayment, tables.MinDownPayment)
	assert.Equal(t, Defaults().Insurance, tables.Insurance)
}

func TestLoadRejectsUnreadableFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), zerolog.Nop())
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))
	_, err = Load(path, zerolog.Nop())
	assert.Error(t, err)
}
