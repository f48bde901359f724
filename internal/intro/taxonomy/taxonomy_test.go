package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"basic", "RIA acquisition Platform", []string{"ria", "acquisition", "platform"}},
		{"ampersand kept", "M&A advisory", []string{"m&a", "advisory"}},
		{"inner hyphen kept", "fee-only, -trailing- hyphen", []string{"fee-only", "trailing", "hyphen"}},
		{"slash splits", "Owner/Founder", []string{"owner", "founder"}},
		{"lone ampersand dropped", "sales & marketing", []string{"sales", "marketing"}},
		{"empty", "  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Words(tt.in))
		})
	}
}

func TestTokens_StopwordsAndSingular(t *testing.T) {
	tax := Default()

	got := tax.Tokens("Transitions for the RIA platforms and business analysis status ops")
	assert.Equal(t, []string{"transition", "ria", "platform", "business", "analysis", "status", "ops"}, got)

	assert.Equal(t, []string{"acquisition"}, tax.Tokens("acquisition Acquisitions"))
}

func TestNormalize_MatchesDictionaryKeys(t *testing.T) {
	tax := Default()

	syns, ok := tax.NeedSynonyms(tax.Normalize("M&A"))
	require.True(t, ok)
	assert.Equal(t, []string{"acquisition", "merger"}, syns)

	amb, ok := tax.Ambiguity(tax.Normalize("Sales"))
	require.True(t, ok)
	assert.Equal(t, []string{"hiring", "talent"}, amb.Need)
	assert.Equal(t, []string{"recruiting", "staffing"}, amb.Capability)

	_, ok = tax.CapabilitySynonyms("platform")
	assert.False(t, ok)
}

func TestTaxonomy_ReturnsCopies(t *testing.T) {
	tax := Default()

	syns, _ := tax.NeedSynonyms("m&a")
	syns[0] = "mutated"
	again, _ := tax.NeedSynonyms("m&a")
	assert.Equal(t, "acquisition", again[0])

	banned := tax.BannedPhrases()
	banned[0] = "mutated"
	assert.Equal(t, "i work with", tax.BannedPhrases()[0])
}

func TestWithBannedPhrases(t *testing.T) {
	base := Default()
	extended := base.WithBannedPhrases("Circle Back", "my client")

	assert.Contains(t, extended.BannedPhrases(), "circle back")
	assert.NotContains(t, base.BannedPhrases(), "circle back")
	assert.Len(t, extended.BannedPhrases(), len(base.BannedPhrases())+1)
	assert.Same(t, base, base.WithBannedPhrases())
}

func TestContainsCue(t *testing.T) {
	assert.True(t, ContainsCue("We are Recruiting engineers", "recruit"))
	assert.True(t, ContainsCue("open role posted", "open role"))
	assert.False(t, ContainsCue("steam engine", "team"))
	assert.True(t, ContainsCue("steam team", "team"))
	assert.False(t, ContainsCue("anything", ""))
}

func TestContainsTerm(t *testing.T) {
	tests := []struct {
		text string
		term string
		want bool
	}{
		{"Executive Search partners", "search", true},
		{"market research", "search", false},
		{"large-scale data platforms", "scale", false},
		{"helping founders scale", "scale", true},
		{"exiting legacy systems", "exit", false},
		{"exit planning", "exit", true},
		{"contract recruiters", "recruiter", true},
		{"B2B demand gen agency", "demand gen", true},
		{"demand planning", "demand gen", false},
		{"sell-side M&A", "m&a", true},
		{"inside sales teams", "sales", true},
		{"anything", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.text+"/"+tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsTerm(tt.text, tt.term))
		})
	}
}

func TestLookups(t *testing.T) {
	tax := Default()

	v, ok := tax.Acronym("RIA")
	assert.True(t, ok)
	assert.Equal(t, "RIA", v)

	p, ok := tax.Plural("Platform")
	assert.True(t, ok)
	assert.Equal(t, "platforms", p)

	assert.True(t, tax.IsPersonaTerm("Founder"))
	assert.False(t, tax.IsPersonaTerm("acquisition"))
	assert.True(t, tax.IsStopword("the"))
	assert.Contains(t, tax.GrowthTerms(), "acquisition")
	assert.Contains(t, tax.RecruitingTerms(), "headhunter")
	assert.Contains(t, tax.MATerms(), "succession")
}
