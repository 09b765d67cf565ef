package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultWeights(t *testing.T) {
	weights := GetDefaultWeights()
	require.Len(t, weights, len(AllRiskFactors))
	for _, f := range AllRiskFactors {
		w, ok := weights[f]
		assert.True(t, ok, "missing weight for %s", f)
		assert.Greater(t, w, 0.0)
	}
	assert.Equal(t, 0.35, weights[LowEngagement])
	assert.Equal(t, 0.25, weights[PerformanceIssues])
}

func TestMergeWeights(t *testing.T) {
	merged := MergeWeights(map[RiskFactor]float64{RemoteWorker: 0.2})
	assert.Equal(t, 0.2, merged[RemoteWorker])
	assert.Equal(t, 0.35, merged[LowEngagement])

	// Defaults must stay untouched
	assert.Equal(t, 0.05, GetDefaultWeights()[RemoteWorker])
}

func TestMergeLookup(t *testing.T) {
	merged := MergeLookup(GetDefaultDepartmentBaselines(), map[string]float64{
		" Engineering ": 0.3,
		"Legal":         0.05,
	})
	assert.Equal(t, 0.3, merged["engineering"])
	assert.Equal(t, 0.05, merged["legal"])
	assert.Equal(t, 0.20, merged["sales"])
}

func TestLookupKey(t *testing.T) {
	assert.Equal(t, "customer support", LookupKey("  Customer Support "))
	assert.Equal(t, "", LookupKey("   "))
}

func TestCanonicalHeader(t *testing.T) {
	assert.Equal(t, "employee_id", CanonicalHeader[0])
	assert.Equal(t, "last_promotion_date", CanonicalHeader[len(CanonicalHeader)-1])
	assert.Len(t, CanonicalHeader, 12)
}
