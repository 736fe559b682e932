package dto

import (
	"testing"
	"time"

	"github.com/engrosnet/catalog-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWindow(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	w, err := NewWindow(&jan, &jun)
	require.NoError(t, err)
	assert.Equal(t, &jan, w.From)
	assert.Equal(t, &jun, w.To)

	// Either side may be open.
	w, err = NewWindow(nil, &jun)
	require.NoError(t, err)
	assert.Nil(t, w.From)

	w, err = NewWindow(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, w.From)
	assert.Nil(t, w.To)

	_, err = NewWindow(&jun, &jan)
	assert.ErrorIs(t, err, model.ErrInvalidRange)
}
