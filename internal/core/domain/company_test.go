package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCompanyType(t *testing.T) {
	tests := []struct {
		input string
		want  CompanyType
	}{
		{"life", CompanyTypeLife},
		{"LIFE", CompanyTypeLife},
		{"생명보험", CompanyTypeLife},
		{"non-life", CompanyTypeNonLife},
		{"nonlife", CompanyTypeNonLife},
		{"non_life", CompanyTypeNonLife},
		{"손해보험", CompanyTypeNonLife},
		{"  life ", CompanyTypeLife},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCompanyType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCompanyType_Unknown(t *testing.T) {
	_, err := ParseCompanyType("health")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "health")
}

func TestCompanyType_IsValid(t *testing.T) {
	assert.True(t, CompanyTypeLife.IsValid())
	assert.True(t, CompanyTypeNonLife.IsValid())
	assert.False(t, CompanyType("").IsValid())
	assert.False(t, CompanyType("health").IsValid())
}

func TestCompanyType_Label(t *testing.T) {
	assert.Equal(t, "생명보험", CompanyTypeLife.Label())
	assert.Equal(t, "손해보험", CompanyTypeNonLife.Label())
	assert.Equal(t, "전체", CompanyType("").Label())
}
