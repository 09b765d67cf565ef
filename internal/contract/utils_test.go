package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/retention/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    schema.RiskLevel
		expected string
	}{
		{name: "critical", input: schema.CriticalRisk, expected: CriticalValue},
		{name: "high", input: schema.HighRisk, expected: HighValue},
		{name: "medium", input: schema.MediumRisk, expected: MediumValue},
		{name: "low", input: schema.LowRisk, expected: LowValue},
		{name: "unknown falls back to low", input: "weird", expected: LowValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	for _, level := range schema.AllRiskLevels {
		assert.Contains(t, GetColorLabel(level), GetPlainLabel(level))
	}
}

func TestGetPriorityLabel(t *testing.T) {
	assert.Equal(t, "high", GetPriorityLabel(schema.HighPriority, false))
	assert.Contains(t, GetPriorityLabel(schema.CriticalPriority, true), "critical")
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.txt")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, path, f.Name())
}

func TestGetStoreDBFilePath(t *testing.T) {
	path := GetStoreDBFilePath()
	assert.True(t, strings.HasSuffix(path, ".retention.db"))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "Alexand...", TruncateText("Alexandria Ocasio", 10))
	assert.Equal(t, "abcdef", TruncateText("abcdef", 3))
	assert.Equal(t, "Zoë...", TruncateText("Zoë Kravitz", 6))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestParseInterventionStatus(t *testing.T) {
	status, err := ParseInterventionStatus(" In_Progress ")
	require.NoError(t, err)
	assert.Equal(t, schema.InProgressStatus, status)

	_, err = ParseInterventionStatus("done")
	assert.Error(t, err)
}

// FuzzTruncateText fuzzes TruncateText with random text and widths.
func FuzzTruncateText(f *testing.F) {
	f.Add("Employee Name", 8)
	f.Add("", 0)
	f.Add("日本語のテキスト", 5)

	f.Fuzz(func(t *testing.T, text string, width int) {
		out := TruncateText(text, width)
		if width > 3 {
			assert.LessOrEqual(t, len([]rune(out)), max(width, 0))
		}
	})
}
