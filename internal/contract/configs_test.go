package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfofanah/dhistat/schema"
)

func validRawInput() *ConfigRawInput {
	return &ConfigRawInput{
		Workers:      4,
		Precision:    1,
		Output:       "text",
		Color:        "yes",
		StoreBackend: "none",
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validRawInput()))

	assert.Equal(t, schema.PeriodColumn, cfg.PeriodColumn)
	assert.Len(t, cfg.Levels, 5)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.NoneBackend, cfg.StoreBackend)
	assert.True(t, cfg.UseColors)
}

func TestProcessAndValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
	}{
		{"zero workers", func(in *ConfigRawInput) { in.Workers = 0 }},
		{"negative precision", func(in *ConfigRawInput) { in.Precision = -1 }},
		{"excess precision", func(in *ConfigRawInput) { in.Precision = MaxPrecision + 1 }},
		{"bad output mode", func(in *ConfigRawInput) { in.Output = "xml" }},
		{"bad color value", func(in *ConfigRawInput) { in.Color = "maybe" }},
		{"bad backend", func(in *ConfigRawInput) { in.StoreBackend = "oracle" }},
		{"unknown level", func(in *ConfigRawInput) { in.Levels = "adm7" }},
		{"missing input file", func(in *ConfigRawInput) { in.InputFileStr = "/no/such/file.csv" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRawInput()
			tt.mutate(input)
			assert.Error(t, ProcessAndValidate(&Config{}, input))
		})
	}
}

func TestProcessAndValidateLevelSubset(t *testing.T) {
	input := validRawInput()
	input.Levels = "adm2,hf"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	require.Len(t, cfg.Levels, 2)
	assert.Equal(t, "adm2", cfg.Levels[0].Name)
	assert.Equal(t, "hf", cfg.Levels[1].Name)
}

func TestProcessAndValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "facilities.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("adm1,period_name\n"), 0o644))

	input := validRawInput()
	input.InputFileStr = csvPath

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, csvPath, cfg.InputFile)

	// A directory is not a dataset.
	input.InputFileStr = dir
	assert.Error(t, ProcessAndValidate(&Config{}, input))
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite empty ok", schema.SQLiteBackend, "", false},
		{"none empty ok", schema.NoneBackend, "", false},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass/dbname", true},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/dhistat", false},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=dhistat", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
