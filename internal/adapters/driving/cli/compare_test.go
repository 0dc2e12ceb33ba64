package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/covrank/internal/core/domain"
)

func TestCompareCmd_RequiresTwoIDs(t *testing.T) {
	_, err := execute("compare", "1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 2 arg(s)")
}

func TestCompareCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	ids := seedCatalogue(t)

	out, err := execute("compare", fmt.Sprint(ids["종신보험"]), fmt.Sprint(ids["암보험"]), "999")

	require.NoError(t, err)
	assert.Contains(t, out, "종신보험")
	assert.Contains(t, out, "암 9000만원")
	assert.Less(t, strings.Index(out, "종신보험"), strings.Index(out, "암보험"))
}

func TestCompareCmd_TooFew(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	ids := seedCatalogue(t)

	_, err := execute("compare", fmt.Sprint(ids["암보험"]), "999")

	assert.ErrorIs(t, err, domain.ErrTooFewProducts)
}

func TestCompareCategoryCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	ids := seedCatalogue(t)

	out, err := execute("compare", "category", "암", "--type", "life")
	require.NoError(t, err)
	assert.Contains(t, out, "Products covering 암:")
	assert.Contains(t, out, "[1] 9000만원")
	assert.NotContains(t, out, "운전자보험")

	resetFlags(rootCmd)
	out, err = execute("compare", "category", "암", "--json")
	require.NoError(t, err)
	var offers []domain.CategoryOffer
	require.NoError(t, json.Unmarshal([]byte(out), &offers))
	require.Len(t, offers, 3)
	assert.Equal(t, ids["암보험"], offers[0].Product.ID)

	resetFlags(rootCmd)
	out, err = execute("compare", "category", "치아")
	require.NoError(t, err)
	assert.Contains(t, out, "No products cover 치아.")
}

func TestCompanyListCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	seedCatalogue(t)

	out, err := execute("company", "list", "--type", "non-life")
	require.NoError(t, err)
	assert.Contains(t, out, "DB손해보험")
	assert.NotContains(t, out, "삼성생명")

	resetFlags(rootCmd)
	out, err = execute("company", "list", "--json")
	require.NoError(t, err)
	var companies []domain.Company
	require.NoError(t, json.Unmarshal([]byte(out), &companies))
	assert.Len(t, companies, 3)
}
