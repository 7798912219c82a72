package provision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/browser"
)

func TestDefaultStrategies(t *testing.T) {
	for _, name := range ActionNames() {
		locs, err := DefaultStrategies(name, testEmail, testWorkspace)
		require.NoError(t, err, name)
		for _, loc := range locs {
			assert.NoError(t, loc.Validate(), "%s: %s", name, loc)
		}
	}

	invite, err := DefaultStrategies(ActionInvite, testEmail, testWorkspace)
	require.NoError(t, err)
	assert.Len(t, invite, 8)

	_, err = DefaultStrategies("nope", testEmail, testWorkspace)
	assert.Error(t, err)
}

func TestDefaultStrategies_SubmitNeverMatchesInvite(t *testing.T) {
	invite, err := DefaultStrategies(ActionInvite, testEmail, testWorkspace)
	require.NoError(t, err)
	submit, err := DefaultStrategies(ActionSubmit, testEmail, testWorkspace)
	require.NoError(t, err)

	for _, loc := range submit {
		assert.NotContains(t, invite, loc)
	}
}

func TestDefaultStrategies_QuoteTargets(t *testing.T) {
	ws, err := DefaultStrategies(ActionWorkspace, testEmail, "Bob's Team")
	require.NoError(t, err)
	assert.Equal(t, browser.XPath(`//a[contains(text(), "Bob's Team")]`), ws[0])
	assert.Contains(t, ws[len(ws)-1].Value, `"bob's team"`)

	member, err := DefaultStrategies(ActionVerifyMember, "john.doe@company.com", testWorkspace)
	require.NoError(t, err)
	assert.Equal(t, browser.XPath("//*[contains(text(), 'john.doe@company.com')]"), member[0])
}

func TestExpand(t *testing.T) {
	tg := targets{Email: "a@b.co", Workspace: "Ops"}

	tests := []struct {
		name string
		in   browser.Locator
		want browser.Locator
	}{
		{
			name: "xpath gets literals",
			in:   browser.XPath("//li[contains(., {workspace})]"),
			want: browser.XPath("//li[contains(., 'Ops')]"),
		},
		{
			name: "css gets raw value",
			in:   browser.CSS(`[title="{email}"]`),
			want: browser.CSS(`[title="a@b.co"]`),
		},
		{
			name: "no placeholder",
			in:   browser.TestID("invite-button"),
			want: browser.TestID("invite-button"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expand(tt.in, tg))
		})
	}
}
