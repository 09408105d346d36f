package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/headsrooms/PlaywrightING/internal/page"
)

func TestTextTokens(t *testing.T) {
	got, err := textTokens(`
		<div><span>Mi</span><span>Nómina</span>
		  <p>1.234,56 €</p>
		  <script>var x = 1;</script>
		</div>`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mi", "Nómina", "1.234,56", "€"}, got)
}

func TestTextTokens_Empty(t *testing.T) {
	got, err := textTokens("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLocate(t *testing.T) {
	query, _ := locate(".c-btn")
	assert.Equal(t, ".c-btn", query)

	query, _ = locate(page.XPathSelector("//li"))
	assert.Equal(t, "//li", query)

	query, _ = locate(page.TextSelector("Visa Gold"))
	assert.Equal(t, `//*[text()[contains(normalize-space(.), "Visa Gold")]]`, query)
}

func TestXPathLiteral(t *testing.T) {
	assert.Equal(t, `"plain"`, xpathLiteral("plain"))
	assert.Equal(t, `'say "hi"'`, xpathLiteral(`say "hi"`))
	assert.Equal(t, `concat("it's ", '"', "quoted", '"', "")`, xpathLiteral(`it's "quoted"`))
}
