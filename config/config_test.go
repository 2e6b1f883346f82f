package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg, err := New("")
	require.NoError(t, err)

	assert.Equal(t, "library.db", cfg.DatabaseFilePath)
	assert.Equal(t, 14, cfg.DefaultLoanDays)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 3690, cfg.ServerPort)
}

func TestNew_MissingFileKeepsDefaults(t *testing.T) {
	cfg, err := New(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 14, cfg.DefaultLoanDays)
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.yaml")
	data := "database_file_path: /tmp/catalog.db\ndefault_loan_days: 21\nserver_port: 8080\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := New(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/catalog.db", cfg.DatabaseFilePath)
	assert.Equal(t, 21, cfg.DefaultLoanDays)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestNew_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_loan_days: 21\n"), 0o644))
	t.Setenv(defaultLoanDaysENV, "7")
	t.Setenv(databaseFilePathENV, "")

	cfg, err := New(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.DefaultLoanDays)
	assert.Equal(t, "", cfg.DatabaseFilePath)
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"zero loan days", defaultLoanDaysENV, "0"},
		{"non-numeric loan days", defaultLoanDaysENV, "two weeks"},
		{"unknown log level", logLevelENV, "loud"},
		{"port out of range", serverPortENV, "70000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := New("")
			assert.Error(t, err)
		})
	}
}
