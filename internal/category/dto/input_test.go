package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryInputsBindWireShape(t *testing.T) {
	var create CreateCategoryInput
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Cheese","parent_id":"cat-root"}`), &create))
	assert.Equal(t, "Cheese", create.Name)
	require.NotNil(t, create.ParentID)
	assert.Equal(t, "cat-root", *create.ParentID)

	var update UpdateCategoryInput
	require.NoError(t, json.Unmarshal([]byte(`{"id":"ignored","name":"Cheese","is_active":true}`), &update))
	assert.Empty(t, update.ID)
	assert.True(t, update.IsActive)
}
