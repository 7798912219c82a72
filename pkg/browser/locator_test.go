package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocator_PlaywrightSelector(t *testing.T) {
	tests := []struct {
		name string
		loc  Locator
		want string
	}{
		{"xpath", XPath("//button[contains(text(), 'Invite')]"), "xpath=//button[contains(text(), 'Invite')]"},
		{"css", CSS("button.invite"), "css=button.invite"},
		{"id", ID("username"), `css=[id="username"]`},
		{"text", Text("Log in"), "text=Log in"},
		{"attribute", Attribute("type", "email"), `css=[type="email"]`},
		{"attribute presence", Locator{Kind: LocatorAttribute, Value: "disabled"}, "css=[disabled]"},
		{"testid", TestID("invite-button"), `css=[data-testid="invite-button"]`},
		{"quotes escaped", TestID(`a"b`), `css=[data-testid="a\"b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.loc.PlaywrightSelector()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocator_RodQuery(t *testing.T) {
	query, isXPath, err := Text("Send").rodQuery()
	require.NoError(t, err)
	assert.True(t, isXPath)
	assert.Equal(t, "//*[text()[contains(., 'Send')]]", query)

	query, isXPath, err = ID("password").rodQuery()
	require.NoError(t, err)
	assert.False(t, isXPath)
	assert.Equal(t, `[id="password"]`, query)

	query, isXPath, err = XPath("//input[@type='email']").rodQuery()
	require.NoError(t, err)
	assert.True(t, isXPath)
	assert.Equal(t, "//input[@type='email']", query)
}

func TestLocator_Validate(t *testing.T) {
	assert.NoError(t, CSS("#x").Validate())
	assert.Error(t, Locator{Kind: "label", Value: "x"}.Validate())
	assert.Error(t, Locator{Kind: LocatorCSS, Value: "   "}.Validate())
	assert.Error(t, Locator{Kind: LocatorAttribute, Value: "=value"}.Validate())

	_, err := Locator{Kind: "bogus", Value: "x"}.PlaywrightSelector()
	assert.Error(t, err)
}

func TestParseLocator(t *testing.T) {
	loc, err := ParseLocator("attribute=name=email")
	require.NoError(t, err)
	assert.Equal(t, Attribute("name", "email"), loc)
	assert.Equal(t, "attribute=name=email", loc.String())

	loc, err = ParseLocator("xpath=//a[@href='/boards']")
	require.NoError(t, err)
	assert.Equal(t, XPath("//a[@href='/boards']"), loc)

	_, err = ParseLocator("no-separator")
	assert.Error(t, err)

	_, err = ParseLocator("role=button")
	assert.Error(t, err)
}

func TestXPathLiteral(t *testing.T) {
	assert.Equal(t, "'Marketing Team'", XPathLiteral("Marketing Team"))
	assert.Equal(t, `"O'Brien"`, XPathLiteral("O'Brien"))
	assert.Equal(t, `concat('say "hi" to O', "'", 'Brien')`, XPathLiteral(`say "hi" to O'Brien`))
}
