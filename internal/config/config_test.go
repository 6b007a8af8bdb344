package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/rentroll/internal/billing"
)

func TestLoadFrom_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[general]
project_id = "harbour"

[billing]
bill_lead_months = "cycle"
days_per_year = 360

[snapshot]
backend = "s3"
[snapshot.s3]
bucket = "rentroll-snapshots"
use_path_style = true
`), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "harbour", cfg.General.ProjectID)
	assert.True(t, cfg.General.KeepBackups)
	assert.Equal(t, BackendS3, cfg.Snapshot.Backend)
	assert.Equal(t, "rentroll-snapshots", cfg.Snapshot.S3.Bucket)
	assert.True(t, cfg.Snapshot.S3.UsePathStyle)
	assert.Equal(t, "127.0.0.1:8787", cfg.Daemon.Addr)

	conv, err := Conventions(cfg)
	require.NoError(t, err)
	assert.Equal(t, billing.LeadRegularCycle, conv.BillLeadMonths)
	assert.Equal(t, 360.0, conv.DaysPerYear)
	assert.Equal(t, 5, conv.FullCycleToleranceDays)
}

func TestLoadFrom_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[general\n"), 0o600))
	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	tol := 3
	cfg.Billing.FullCycleToleranceDays = &tol
	cfg.Narrative.APIKey = "k"
	require.NoError(t, SaveTo(path, cfg))

	got, err := LoadFrom(path)
	require.NoError(t, err)
	require.NotNil(t, got.Billing.FullCycleToleranceDays)
	assert.Equal(t, 3, *got.Billing.FullCycleToleranceDays)
	assert.Equal(t, "k", got.Narrative.APIKey)
}

func TestConventions(t *testing.T) {
	conv, err := Conventions(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, billing.DefaultConventions(), conv)

	cfg := DefaultConfig()
	cfg.Billing.BillLeadMonths = "0"
	conv, err = Conventions(cfg)
	require.NoError(t, err)
	assert.Zero(t, conv.BillLeadMonths)

	back := 3
	cfg.Billing.LookbackYears = &back
	conv, err = Conventions(cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, conv.LookbackYears)
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, jan.AddDate(-3, 0, 0), conv.Window(jan, jan).Start)

	for _, bad := range []string{"-1", "two", "1.5"} {
		cfg.Billing.BillLeadMonths = bad
		_, err = Conventions(cfg)
		assert.Error(t, err, bad)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	assert.Equal(t, "/cfg/rentroll/config.toml", ConfigPath())
	assert.Equal(t, "/data/rentroll/rentroll.json", DataPath(DefaultConfig()))
	assert.Equal(t, "/data/rentroll/snapshots.db", SnapshotDBPath(DefaultConfig()))

	cfg := DefaultConfig()
	cfg.General.DataFile = "/srv/park.json"
	assert.Equal(t, "/srv/park.json", DataPath(cfg))
}

func TestYear(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2026, Year(DefaultConfig(), now))
	cfg := DefaultConfig()
	cfg.General.DefaultYear = 2024
	assert.Equal(t, 2024, Year(cfg, now))
}

func TestSecretsFromEnv(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Narrative.APIKey = "from-config"
	cfg.Snapshot.S3.AccessKey = "ak"
	cfg.Snapshot.S3.SecretKey = "sk"

	t.Setenv("RENTROLL_NARRATIVE_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	assert.Equal(t, "from-config", GetNarrativeKey(cfg))
	t.Setenv("GEMINI_API_KEY", "gemini")
	assert.Equal(t, "gemini", GetNarrativeKey(cfg))
	t.Setenv("RENTROLL_NARRATIVE_KEY", "ours")
	assert.Equal(t, "ours", GetNarrativeKey(cfg))

	t.Setenv("RENTROLL_S3_ACCESS_KEY", "")
	t.Setenv("RENTROLL_S3_SECRET_KEY", "env-sk")
	ak, sk := GetS3Credentials(cfg)
	assert.Equal(t, "ak", ak)
	assert.Equal(t, "env-sk", sk)
}
