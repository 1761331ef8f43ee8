package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlens-labs/gridlens/internal/cli/config"
)

func TestBEACommand_NoAPIKey(t *testing.T) {
	config.ResetConfig()
	t.Setenv("GRIDLENS_BEA_API_KEY", "")

	cmd := NewBEACommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"datasets"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no BEA API key")
}

func TestBEAFetchCommand_ArgCount(t *testing.T) {
	config.ResetConfig()

	cmd := NewBEACommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"fetch", "CAINC1"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestBEAClient_FlagBeatsConfig(t *testing.T) {
	cmdCtx := &CommandContext{Cfg: &config.Config{BEAAPIKey: "from-config"}}

	client, err := beaClient(cmdCtx, &BEAOptions{APIKey: "from-flag"})
	require.NoError(t, err)
	assert.NotNil(t, client)

	client, err = beaClient(cmdCtx, &BEAOptions{})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestStatisticTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"all caps", "PERSONAL INCOME", "Personal Income"},
		{"mixed case untouched", "Per capita personal income", "Per capita personal income"},
		{"acronym preserved", "GDP by state", "GDP by state"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statisticTitle(tt.in))
		})
	}
}
