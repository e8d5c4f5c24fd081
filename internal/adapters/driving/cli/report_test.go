package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nerstat/internal/core/domain"
)

func TestReportCmd_Use(t *testing.T) {
	assert.Equal(t, "report [run-id]", reportCmd.Use)
	assert.NotNil(t, reportCmd.Flags().Lookup("raw"))
}

func TestReportCmd_RawLatest(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"report", "--raw"})
	defer func() {
		rootCmd.SetArgs(nil)
		reportRaw = false
	}()

	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, buf.String(), "## 分析概要")
	assert.Contains(t, buf.String(), "3f1c9a7e-0000-4000-8000-000000000001")
}

func TestReportCmd_RenderedByID(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"report", "77aa0000-0000-4000-8000-000000000002"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, buf.String(), "分析概要")
	assert.Contains(t, buf.String(), "77aa0000")
}

func TestReportCmd_UnknownRun(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"report", "missing"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReportCmd_RenderError(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	reportRenderer = func(domain.RunRecord) (string, error) { return "", errors.New("bad template") }

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"report"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorContains(t, err, "render report: bad template")
}

func TestRenderMarkdown_NoTTY(t *testing.T) {
	out, err := renderMarkdown("# 見出し\n\n本文です。\n", 80, false)

	require.NoError(t, err)
	assert.Contains(t, out, "見出し")
	assert.Contains(t, out, "本文です。")
	assert.NotContains(t, out, "\x1b[")
}
