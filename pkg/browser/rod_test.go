package browser

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const coveredButtonPage = `<html><body>
<button id="send" onclick="document.getElementById('out').textContent='clicked'">Send</button>
<div style="position:fixed;top:0;left:0;width:100%;height:100%;z-index:10"></div>
<span id="out"></span>
</body></html>`

func TestRodElement_ClickCoveredFallsBackToDOM(t *testing.T) {
	if testing.Short() {
		t.Skip("launches Chromium")
	}
	if _, ok := launcher.LookPath(); !ok {
		t.Skip("no local Chromium")
	}

	session, err := Open(SessionOptions{Driver: DriverRod, Headless: true, Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer session.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	require.NoError(t, session.Navigate(ctx, "data:text/html;charset=utf-8,"+url.PathEscape(coveredButtonPage)))

	btn, err := session.Find(ctx, ID("send"))
	require.NoError(t, err)
	require.NoError(t, btn.Click(ctx))

	out, err := session.Find(ctx, ID("out"))
	require.NoError(t, err)
	text, err := out.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "clicked", text)
}
