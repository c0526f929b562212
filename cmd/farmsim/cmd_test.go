package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coin98/baryon-farm/pkg/scenario"
)

func TestRunCmd(t *testing.T) {
	requireT := require.New(t)

	rootCmd := NewRootCmd()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"run", "--strict", "--indent=false", "../../pkg/scenario/testdata/farm.yaml"})
	requireT.NoError(rootCmd.Execute())

	var report scenario.Report
	requireT.NoError(json.Unmarshal(out.Bytes(), &report))
	requireT.True(report.Passed)
	requireT.Equal("farm lifecycle", report.Name)
}

func TestRunCmdStrict(t *testing.T) {
	requireT := require.New(t)

	path := filepath.Join(t.TempDir(), "failing.yaml")
	requireT.NoError(os.WriteFile(path, []byte("start_time: 1700000000\nsteps:\n  - action: harvest\n    sender: owner\n"), 0o600))

	testCases := []struct {
		name      string
		args      []string
		expectErr bool
	}{
		{
			name: "lenient",
			args: []string{"run", path},
		},
		{
			name:      "strict",
			args:      []string{"run", "--strict", path},
			expectErr: true,
		},
		{
			name:      "invalid_log_level",
			args:      []string{"run", "--log-level", "loud", path},
			expectErr: true,
		},
		{
			name:      "missing_file",
			args:      []string{"run", filepath.Join(t.TempDir(), "missing.yaml")},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rootCmd := NewRootCmd()
			rootCmd.SetOut(&bytes.Buffer{})
			rootCmd.SetErr(&bytes.Buffer{})
			rootCmd.SetArgs(tc.args)
			err := rootCmd.Execute()
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestEnvOverridesFlags(t *testing.T) {
	t.Setenv("FARMSIM_STRICT", "true")

	path := filepath.Join(t.TempDir(), "failing.yaml")
	require.NoError(t, os.WriteFile(path, []byte("start_time: 1700000000\nsteps:\n  - action: harvest\n    sender: owner\n"), 0o600))

	rootCmd := NewRootCmd()
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"run", path})
	require.Error(t, rootCmd.Execute())
}
