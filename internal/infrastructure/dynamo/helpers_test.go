package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	expr, names, values, err := buildUpdateExpr(map[string]interface{}{"mobile": "0412345678"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", expr)
	assert.Equal(t, map[string]string{"#f0": "mobile"}, names)
	_, ok := values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields(t *testing.T) {
	expr, names, values, err := buildUpdateExpr(map[string]interface{}{
		"mobile": "0412345678",
		"role":   "staff",
	})
	require.NoError(t, err)
	assert.Len(t, names, 2)
	assert.Len(t, values, 2)
	assert.Contains(t, expr, "SET ")
	assert.Contains(t, expr, ", ")
}

func TestBuildUpdateExpr_Empty(t *testing.T) {
	_, _, _, err := buildUpdateExpr(map[string]interface{}{})
	require.Error(t, err)
}

func TestStrKey(t *testing.T) {
	key := strKey("uid", "abc")
	v, ok := key["uid"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "abc", v.Value)
}
