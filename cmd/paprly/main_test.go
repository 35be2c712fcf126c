// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paprly/paprly/internal/secrets"
	"github.com/paprly/paprly/pkg/types"
)

func testViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	setConfigDefaults(v)
	configureEnv(v)
	return v
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(testViper(t), nil)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultAppConfig(), cfg)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PAPRLY_STORE_PATH", "/tmp/other.db")
	t.Setenv("PAPRLY_SERVER_ADDR", ":9999")
	t.Setenv("PAPRLY_ARXIV_SEARCH_INTERVAL", "5s")
	t.Setenv("FASTAPI_URL", "http://backend:8000")

	cfg, err := loadConfig(testViper(t), nil)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", cfg.Store.Path)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Arxiv.SearchInterval)
	assert.Equal(t, "http://backend:8000", cfg.Backend.URL)
}

func TestLoadConfigPrefixedBackendURLWins(t *testing.T) {
	t.Setenv("PAPRLY_BACKEND_URL", "http://primary:8000")
	t.Setenv("FASTAPI_URL", "http://fallback:8000")

	cfg, err := loadConfig(testViper(t), nil)
	require.NoError(t, err)
	assert.Equal(t, "http://primary:8000", cfg.Backend.URL)
}

func TestLoadConfigSecrets(t *testing.T) {
	s := map[string]string{
		secrets.BackendAPIKey:     "bk_file",
		secrets.ArxivContactEmail: "reader@example.com",
	}

	cfg, err := loadConfig(testViper(t), s)
	require.NoError(t, err)
	assert.Equal(t, "bk_file", cfg.Backend.APIKey)
	assert.Equal(t, "paprly/0.1 (mailto:reader@example.com)", cfg.Arxiv.UserAgent)

	v := testViper(t)
	v.Set("backend.api_key", "bk_config")
	cfg, err = loadConfig(v, s)
	require.NoError(t, err)
	assert.Equal(t, "bk_config", cfg.Backend.APIKey)
}

func TestLoadConfigInvalid(t *testing.T) {
	v := testViper(t)
	v.Set("log.format", "xml")
	_, err := loadConfig(v, nil)
	assert.ErrorContains(t, err, "log.format")
}

func TestLoadConfigTrustedProxies(t *testing.T) {
	t.Setenv("PAPRLY_SERVER_TRUSTED_PROXIES", "10.0.0.0/8 192.168.0.0/16")
	cfg, err := loadConfig(testViper(t), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.0.0/16"}, cfg.Server.TrustedProxies)

	v := testViper(t)
	v.Set("server.trusted_proxies", []string{"10.0.0.1"})
	_, err = loadConfig(v, nil)
	assert.ErrorContains(t, err, "server.trusted_proxies")
}

func resetFlags(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		f := cmd.Flags().Lookup(name)
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
}

func TestSearchOutputFlagsAreExclusive(t *testing.T) {
	for _, other := range []string{"--json", "--yaml"} {
		t.Run(other, func(t *testing.T) {
			t.Cleanup(func() { resetFlags(searchCmd, "csl", "json", "yaml") })
			require.NoError(t, searchCmd.Flags().Parse([]string{"--csl", other, "--query", "attention"}))
			assert.ErrorContains(t, searchCmd.ValidateFlagGroups(), "csl")
		})
	}
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	cmd.SetContext(ctx)
	require.NoError(t, cmd.Flags().Parse(args))
	require.NoError(t, cmd.RunE(cmd, cmd.Flags().Args()))
	return buf.String()
}

func TestClassifyCommandJSON(t *testing.T) {
	t.Cleanup(func() { classifyCmd.Flags().Set("json", "false") })
	out := runCommand(t, classifyCmd, "--json", "arXiv:2410.12345v2", "https://example.com")

	var rows []classifyRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, classifyRow{Input: "arXiv:2410.12345v2", Kind: "id", ID: "2410.12345v2", Verified: true}, rows[0])
	assert.Equal(t, "unknown", rows[1].Kind)
}

func TestClassifyCommandTable(t *testing.T) {
	out := runCommand(t, classifyCmd, "https://arxiv.org/pdf/2501.00001.pdf")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], "2501.00001")
	assert.Contains(t, lines[2], "false")
}

func TestFormatSearchTable(t *testing.T) {
	var buf bytes.Buffer
	formatSearchTable([]types.SearchResult{{
		Identifier:     "2401.00001",
		Title:          "A Very Long Title That Keeps Going Well Past The Column Width Of The Table",
		Authors:        []string{"Alice Smith", "Bob Jones"},
		Date:           time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		RelevanceScore: 1,
	}}, &buf)

	out := buf.String()
	assert.Contains(t, out, "2401.00001")
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "Alice Smith et al.")
	assert.Contains(t, out, "2024")
	assert.Contains(t, out, "1 results")

	buf.Reset()
	formatSearchTable(nil, &buf)
	assert.Equal(t, "No results found.\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b", truncate("a\n  b", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "Ünïcödé...", truncate("Ünïcödé text here", 10))
}

func TestParsePaperID(t *testing.T) {
	id, err := parsePaperID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-1", "abc"} {
		_, err := parsePaperID(bad)
		assert.Error(t, err, bad)
	}
}
