package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLevelsChain(t *testing.T) {
	levels := DefaultLevels()
	require.Len(t, levels, 5)

	expectedNames := []string{"adm1", "adm2", "adm3", "adm4", "hf"}
	for i, lvl := range levels {
		assert.Equal(t, expectedNames[i], lvl.Name)

		// Every level ends with the year/month terminator.
		n := len(lvl.Keys)
		require.GreaterOrEqual(t, n, 4)
		assert.Equal(t, YearColumn, lvl.Keys[n-2])
		assert.Equal(t, MonthColumn, lvl.Keys[n-1])

		// Strict prefix extension: each level's admin keys extend the previous.
		if i > 0 {
			prevAdmin := levels[i-1].Keys[:len(levels[i-1].Keys)-2]
			currAdmin := lvl.Keys[:n-2]
			require.Len(t, currAdmin, len(prevAdmin)+1)
			assert.Equal(t, prevAdmin, currAdmin[:len(prevAdmin)])
		}
	}

	assert.Equal(t,
		[]string{"adm0", "adm1", "adm2", "adm3", "adm4", "hf", "year", "month"},
		levels[4].Keys)
}

func TestLevelNameForKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"adm2 level", []string{"adm0", "adm1", "adm2", "year", "month"}, "adm2"},
		{"hf level", []string{"adm0", "adm1", "adm2", "adm3", "adm4", "hf", "year", "month"}, "hf"},
		{"time only falls back", []string{"year", "month"}, "month"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelNameForKeys(tt.keys))
		})
	}
}

func TestSelectLevels(t *testing.T) {
	t.Run("empty selection returns all", func(t *testing.T) {
		levels, err := SelectLevels("")
		require.NoError(t, err)
		assert.Len(t, levels, 5)
	})

	t.Run("subset preserves chain order", func(t *testing.T) {
		levels, err := SelectLevels("hf, adm1")
		require.NoError(t, err)
		require.Len(t, levels, 2)
		assert.Equal(t, "adm1", levels[0].Name)
		assert.Equal(t, "hf", levels[1].Name)
	})

	t.Run("unknown level rejected", func(t *testing.T) {
		_, err := SelectLevels("adm9")
		assert.Error(t, err)
	})
}
