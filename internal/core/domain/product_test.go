package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitKeywords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "암", []string{"암"}},
		{"trims", " 암 , 뇌혈관 ,", []string{"암", "뇌혈관"}},
		{"blanks only", " , , ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitKeywords(tt.input))
		})
	}
}

func TestNewSpecialCondition_TruncatesName(t *testing.T) {
	long := strings.Repeat("보", 150)

	c := NewSpecialCondition(long)

	assert.Equal(t, MaxConditionNameLength, len([]rune(c.Name)))
	assert.Equal(t, long, c.Detail)
}

func TestNewSpecialCondition_Short(t *testing.T) {
	c := NewSpecialCondition("납입면제")

	assert.Equal(t, "납입면제", c.Name)
	assert.Equal(t, "납입면제", c.Detail)
}

func TestParseStructuredData(t *testing.T) {
	sd, err := ParseStructuredData(`{"premiumAmount":30000,"coveragePeriod":"100세","coverageAmounts":[{"category":"암","amount":100000000}],"specialConditions":["납입면제"]}`)
	require.NoError(t, err)
	require.NotNil(t, sd)

	require.NotNil(t, sd.PremiumAmount)
	assert.InDelta(t, 30000, *sd.PremiumAmount, 0.001)
	assert.Equal(t, "100세", sd.Period())
	require.Len(t, sd.Amounts(), 1)
	assert.Equal(t, "암", sd.Amounts()[0].Category)
	require.Len(t, sd.Conditions(), 1)
	assert.Equal(t, "납입면제", sd.Conditions()[0].Name)
}

func TestParseStructuredData_Empty(t *testing.T) {
	sd, err := ParseStructuredData("  ")
	require.NoError(t, err)
	assert.Nil(t, sd)
}

func TestParseStructuredData_Malformed(t *testing.T) {
	sd, err := ParseStructuredData("{not json")
	require.Error(t, err)
	assert.Nil(t, sd)
}

func TestStructuredData_NilReceiver(t *testing.T) {
	var sd *StructuredData

	assert.Empty(t, sd.Period())
	assert.Nil(t, sd.Amounts())
	assert.Nil(t, sd.Conditions())

	encoded, err := sd.Encode()
	require.NoError(t, err)
	assert.Empty(t, encoded)
}

func TestStructuredData_EncodeRoundTrip(t *testing.T) {
	period := "20년"
	in := &StructuredData{CoveragePeriod: &period, SpecialConditions: []string{"무해지", ""}}

	raw, err := in.Encode()
	require.NoError(t, err)

	out, err := ParseStructuredData(raw)
	require.NoError(t, err)
	assert.Equal(t, "20년", out.Period())
	// blank conditions are dropped
	assert.Len(t, out.Conditions(), 1)
}

func TestCategoryFromFileName(t *testing.T) {
	tests := []struct {
		file  string
		want  string
		found bool
	}{
		{"2024_간병치매플랜_안내.pdf", "간병/치매", true},
		{"당뇨보험_상품설명.pdf", "당뇨", true},
		{"3월_영업이슈.pdf", "영업자료", true},
		{"신입_교안.pdf", "교육자료", true},
		{"마케팅팩_v2.pdf", "마케팅", true},
		{"사망보험금유동화_가이드.pdf", "사망보험금유동화", true},
		{"brochure.pdf", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, ok := CategoryFromFileName(tt.file)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDuplicateGroup_KeepAndRemovals(t *testing.T) {
	g := DuplicateGroup{CompanyID: 1, Title: "암보험", ProductIDs: []int64{9, 4, 2}}

	assert.Equal(t, int64(9), g.KeepID())
	assert.Equal(t, []int64{4, 2}, g.Removals())

	single := DuplicateGroup{ProductIDs: []int64{3}}
	assert.Nil(t, single.Removals())
	assert.Equal(t, int64(0), DuplicateGroup{}.KeepID())
}
