package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrKey(t *testing.T) {
	key := strKey("doctor_id", "doc-123")
	require.Len(t, key, 1)
	s, ok := key["doctor_id"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "doc-123", s.Value)
}

func TestBuildUpdateExpr_Empty(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.Error(t, err)
}

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"status": "Discharged"})
	require.NoError(t, err)

	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "status"}, ue.Names)
	s, ok := ue.Values[":v0"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "Discharged", s.Value)
}

func TestBuildUpdateExpr_SortedDeterministic(t *testing.T) {
	updates := map[string]interface{}{
		"name":      "Kofi",
		"diagnosis": "Malaria",
		"status":    "Admitted",
	}
	ue, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	// Keys are sorted, so placeholder order never depends on map iteration.
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue.Expr)
	assert.Equal(t, "diagnosis", ue.Names["#f0"])
	assert.Equal(t, "name", ue.Names["#f1"])
	assert.Equal(t, "status", ue.Names["#f2"])

	for i := 0; i < 5; i++ {
		again, err := buildUpdateExpr(updates)
		require.NoError(t, err)
		assert.Equal(t, ue.Expr, again.Expr)
		assert.Equal(t, ue.Names, again.Names)
	}
}

func TestBuildUpdateExpr_NonStringValue(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"visit_count": 3})
	require.NoError(t, err)
	n, ok := ue.Values[":v0"].(*types.AttributeValueMemberN)
	require.True(t, ok)
	assert.Equal(t, "3", n.Value)
}
