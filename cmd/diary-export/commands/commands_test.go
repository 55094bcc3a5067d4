package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSplitTokens(t *testing.T) {
	require.Equal(t, []string{"egg", "peanut butter"}, splitTokens(" egg, ,peanut butter,"))
	require.Nil(t, splitTokens(""))
}

func TestExporterConfig(t *testing.T) {
	cfg := Config{AnalyzedUser: "alice", DateLayouts: []string{"2 Jan 2006"}}

	exportCfg, err := exporterConfig(cfg, "", "2024-01-05", "", "out.csv")
	require.Nil(t, err)
	require.Equal(t, "alice", exportCfg.AnalyzedUser)
	require.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), exportCfg.Start)
	require.True(t, exportCfg.End.IsZero())
	require.Equal(t, []string{"2 Jan 2006"}, exportCfg.DateLayouts)

	exportCfg, err = exporterConfig(cfg, "bob", "", "", "out.csv")
	require.Nil(t, err)
	require.Equal(t, "bob", exportCfg.AnalyzedUser)

	_, err = exporterConfig(cfg, "", "01/05/2024", "", "out.csv")
	require.NotNil(t, err)
}
