package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_DelinquencyNotice(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)
	require.True(t, renderer.Has("delinquency_notice"))

	html, text, err := renderer.Render("delinquency_notice", DelinquencyNoticeData{
		ResidentName: "Ana <Torres>",
		Unit:         "A-101",
		Balance:      "2400.00",
		Threshold:    "1600.00",
		AsOf:         "2026-03-10",
		StatementURL: "https://portal.example.com/ledger/r1",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Ana &lt;Torres&gt;")
	assert.Contains(t, html, "$2400.00")
	assert.Contains(t, html, `href="https://portal.example.com/ledger/r1"`)
	assert.Contains(t, text, "Hola Ana <Torres>,")
	assert.Contains(t, text, "la unidad A-101")
	assert.Contains(t, text, "Estado de cuenta: https://portal.example.com/ledger/r1")
}

func TestRenderer_OmitsStatementLinkWhenMissing(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	html, text, err := renderer.Render("delinquency_notice", DelinquencyNoticeData{ResidentName: "Luis", Unit: "B-2"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<a href")
	assert.NotContains(t, text, "Estado de cuenta")
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	assert.False(t, renderer.Has("welcome"))
	_, _, err = renderer.Render("welcome", nil)
	assert.Error(t, err)
}
