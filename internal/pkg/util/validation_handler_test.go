package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleDTO struct {
	Title  string `json:"title" validate:"min=1,max=5"`
	Status string `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
}

func TestValidateDTO(t *testing.T) {
	require.NoError(t, ValidateDTO(&sampleDTO{Title: "ok"}))

	err := ValidateDTO(&sampleDTO{Title: "too long"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[title]")
	assert.Contains(t, err.Error(), "max=5")

	err = ValidateDTO(&sampleDTO{Title: "ok", Status: "hidden"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[status]")
}
