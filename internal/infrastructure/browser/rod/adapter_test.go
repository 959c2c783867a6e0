package rod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const counterPage = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<span id="nav-cart-count"> 10+ </span>
	<input class="docs-title-input" value="Quarterly report" />
	<a id="nav-cart" href="#cart" aria-label="Cart">Cart</a>
	<div id="editor" contenteditable="true"><p>draft message</p></div>
	<div id="clicks">0</div>
	<div id="inputs">0</div>
	<ul><li class="item">a</li><li class="item">b</li><li class="item">c</li></ul>
	<section id="overview"><dt>Status</dt><dd>Active</dd><script>var x = 1;</script></section>
	<script>
		document.getElementById('nav-cart').addEventListener('click', function (e) {
			e.preventDefault();
			var el = document.getElementById('clicks');
			el.textContent = String(Number(el.textContent) + 1);
		});
		document.getElementById('editor').addEventListener('input', function () {
			var el = document.getElementById('inputs');
			el.textContent = String(Number(el.textContent) + 1);
		});
	</script>
</body>
</html>`

func newTestAdapter(t *testing.T) *BrowserAdapter {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	if _, has := launcher.LookPath(); !has {
		t.Skip("Skipping browser test: no Chrome installation found")
	}

	cfg := DefaultConfig()
	cfg.Headless = true
	cfg.NoSandbox = true
	cfg.Timeout = 5 * time.Second

	adapter, err := NewBrowserAdapter(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(adapter.Close)
	return adapter
}

func serve(t *testing.T, body string) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server.URL
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Headless)
	assert.Equal(t, time.Duration(defaultSlowMotion), cfg.SlowMotion)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.False(t, cfg.NoSandbox, "Should be secure by default")
	assert.Empty(t, cfg.ControlURL)
	assert.Equal(t, "about:blank", cfg.StartURL)
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"Empty URL", "", true},
		{"Blank URL", "   ", true},
		{"Invalid scheme", "ftp://example.com", true},
		{"JavaScript URL", "javascript:alert(1)", true},
		{"HTTPS", "https://www.amazon.com/", false},
		{"HTTP", "http://127.0.0.1:8080/x", false},
		{"File", "file:///tmp/page.html", false},
		{"About", "about:blank", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateURL(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidURL)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDownscale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2048, 600))
	for x := 0; x < 2048; x++ {
		img.Set(x, 10, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	shot, err := downscale(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, "jpeg", shot.Format)
	assert.Equal(t, screenshotMaxWidth, shot.Width)
	assert.Equal(t, 300, shot.Height)
	assert.NotEmpty(t, shot.Data)
}

func TestDownscale_KeepsSmallImages(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 640, 480))))

	shot, err := downscale(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, 640, shot.Width)
	assert.Equal(t, 480, shot.Height)
}

func TestDownscale_InvalidImage(t *testing.T) {
	_, err := downscale([]byte("not an image"))
	assert.Error(t, err)
}

func TestBrowserAdapter_ReadOperations(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, adapter.Navigate(ctx, serve(t, counterPage)))

	t.Run("has", func(t *testing.T) {
		ok, err := adapter.Has(ctx, "#nav-cart-count")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = adapter.Has(ctx, "#missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("text", func(t *testing.T) {
		text, err := adapter.Text(ctx, "#nav-cart-count")
		require.NoError(t, err)
		assert.Equal(t, "10+", text)
	})

	t.Run("value", func(t *testing.T) {
		value, err := adapter.Value(ctx, "input.docs-title-input")
		require.NoError(t, err)
		assert.Equal(t, "Quarterly report", value)
	})

	t.Run("attribute", func(t *testing.T) {
		label, ok, err := adapter.Attribute(ctx, "#nav-cart", "aria-label")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Cart", label)

		_, ok, err = adapter.Attribute(ctx, "#nav-cart", "data-missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("count", func(t *testing.T) {
		n, err := adapter.Count(ctx, "li.item")
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("region text", func(t *testing.T) {
		text, err := adapter.RegionText(ctx, "#overview")
		require.NoError(t, err)
		assert.Equal(t, "Status\nActive", text)
	})

	t.Run("missing element", func(t *testing.T) {
		_, err := adapter.Text(ctx, "#missing")
		assert.ErrorIs(t, err, ErrElementNotFound)
	})

	t.Run("empty selector", func(t *testing.T) {
		_, err := adapter.Has(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidSelector)
	})

	t.Run("location", func(t *testing.T) {
		loc, err := adapter.Location(ctx)
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1", loc.Host)
		assert.Equal(t, "/", loc.Path)
	})
}

func TestBrowserAdapter_ClickFiresOnce(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, adapter.Navigate(ctx, serve(t, counterPage)))

	require.NoError(t, adapter.Click(ctx, "#nav-cart"))

	clicks, err := adapter.Text(ctx, "#clicks")
	require.NoError(t, err)
	assert.Equal(t, "1", clicks)
}

func TestBrowserAdapter_ClearEditable(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, adapter.Navigate(ctx, serve(t, counterPage)))

	require.NoError(t, adapter.ClearEditable(ctx, "#editor"))

	html, err := adapter.HTML(ctx, "#editor")
	require.NoError(t, err)
	assert.Contains(t, html, "<p><br></p>")
	assert.NotContains(t, html, "draft message")

	inputs, err := adapter.Text(ctx, "#inputs")
	require.NoError(t, err)
	assert.Equal(t, "1", inputs)
}

func TestBrowserAdapter_SetHash(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, adapter.Navigate(ctx, serve(t, counterPage)))

	require.NoError(t, adapter.SetHash(ctx, "#inbox"))

	loc, err := adapter.Location(ctx)
	require.NoError(t, err)
	assert.Equal(t, "inbox", loc.Hash)
}

func TestBrowserAdapter_WaitFor(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, adapter.Navigate(ctx, serve(t, `<!DOCTYPE html><html><body>
		<script>setTimeout(function () {
			var d = document.createElement('div'); d.id = 'late'; document.body.appendChild(d);
		}, 200);</script></body></html>`)))

	assert.NoError(t, adapter.WaitFor(ctx, "#late", 3*time.Second))

	err := adapter.WaitFor(ctx, "#never", 300*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestBrowserAdapter_Navigate_InvalidURL(t *testing.T) {
	adapter := newTestAdapter(t)

	err := adapter.Navigate(context.Background(), "javascript:alert(1)")
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestBrowserAdapter_SetTimeout(t *testing.T) {
	adapter := newTestAdapter(t)

	newTimeout := 7 * time.Second
	adapter.SetTimeout(newTimeout)
	assert.Equal(t, newTimeout, adapter.GetTimeout())

	adapter.SetTimeout(0)
	assert.Equal(t, newTimeout, adapter.GetTimeout())

	adapter.SetTimeout(-1 * time.Second)
	assert.Equal(t, newTimeout, adapter.GetTimeout())
}

func TestBrowserAdapter_Screenshot(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, adapter.Navigate(ctx, serve(t, counterPage)))

	shot, err := adapter.Screenshot(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, shot.Data)
	assert.LessOrEqual(t, shot.Width, screenshotMaxWidth)
}

func TestBrowserAdapter_ClosedState(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	assert.True(t, adapter.IsReady())
	adapter.Close()
	assert.False(t, adapter.IsReady())

	assert.NotPanics(t, func() { adapter.Close() })

	_, err := adapter.Has(ctx, "#x")
	assert.ErrorIs(t, err, ErrBrowserNotConnected)
	assert.ErrorIs(t, adapter.Click(ctx, "#x"), ErrBrowserNotConnected)
	assert.ErrorIs(t, adapter.SetHash(ctx, "#inbox"), ErrBrowserNotConnected)
	assert.ErrorIs(t, adapter.Navigate(ctx, "http://example.com"), ErrBrowserNotConnected)
	_, err = adapter.Location(ctx)
	assert.ErrorIs(t, err, ErrBrowserNotConnected)
}
