package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"webtools/internal/application/port/output"
	"webtools/internal/domain/entity"
)

var _ output.PagePort = (*BrowserAdapter)(nil)

var (
	ErrBrowserNotConnected = errors.New("browser not connected")
	ErrInvalidURL          = errors.New("invalid url")
	ErrInvalidSelector     = errors.New("invalid selector")
	ErrElementNotFound     = errors.New("element not found")
	ErrTimeout             = errors.New("timed out")
)

const (
	defaultTimeout     = 10 * time.Second
	defaultSlowMotion  = 0
	screenshotMaxWidth = 1024
	screenshotQuality  = 75
)

type BrowserConfig struct {
	Headless   bool
	SlowMotion time.Duration
	Timeout    time.Duration
	NoSandbox  bool
	DevTools   bool
	// ControlURL attaches to an already running Chrome (for example one started
	// with --remote-debugging-port) instead of launching a new one. This keeps
	// the user's logged-in sessions available to the bindings.
	ControlURL string
	StartURL   string
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:   false,
		SlowMotion: defaultSlowMotion,
		Timeout:    defaultTimeout,
		NoSandbox:  false,
		DevTools:   false,
		StartURL:   "about:blank",
	}
}

// BrowserAdapter drives one page of a Chrome instance over CDP.
type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration

	mu     sync.RWMutex
	closed bool
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.StartURL == "" {
		cfg.StartURL = "about:blank"
	}

	var (
		l          *launcher.Launcher
		controlURL string
		err        error
	)
	if cfg.ControlURL != "" {
		controlURL, err = launcher.ResolveURL(cfg.ControlURL)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve control url: %w", err)
		}
	} else {
		l = launcher.New().
			Context(ctx).
			Headless(cfg.Headless).
			Devtools(cfg.DevTools).
			NoSandbox(cfg.NoSandbox).
			Delete("use-mock-keychain")

		controlURL, err = l.Launch()
		if err != nil {
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
	}

	browser := rod.New().
		ControlURL(controlURL).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		cleanupLauncher(l)
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := openPage(browser, cfg)
	if err != nil {
		_ = browser.Close()
		cleanupLauncher(l)
		return nil, err
	}

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  cfg.Timeout,
	}, nil
}

// openPage reuses the first open tab when attached to a user's browser so the
// bindings act on what the user is looking at.
func openPage(browser *rod.Browser, cfg BrowserConfig) (*rod.Page, error) {
	if cfg.ControlURL != "" {
		pages, err := browser.Pages()
		if err == nil && len(pages) > 0 {
			return pages.First(), nil
		}
	}
	page, err := browser.Page(proto.TargetCreateTarget{URL: cfg.StartURL})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	return page, nil
}

func (b *BrowserAdapter) IsReady() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return !b.closed && b.page != nil
}

func (b *BrowserAdapter) GetTimeout() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.timeout
}

func (b *BrowserAdapter) SetTimeout(timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	b.mu.Lock()
	b.timeout = timeout
	b.mu.Unlock()
}

// pageFor returns the page bound to ctx, or ErrBrowserNotConnected after Close.
func (b *BrowserAdapter) pageFor(ctx context.Context) (*rod.Page, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed || b.page == nil {
		return nil, ErrBrowserNotConnected
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return b.page.Context(ctx), nil
}

func (b *BrowserAdapter) Location(ctx context.Context) (entity.PageLocation, error) {
	page, err := b.pageFor(ctx)
	if err != nil {
		return entity.PageLocation{}, err
	}
	info, err := page.Info()
	if err != nil {
		return entity.PageLocation{}, fmt.Errorf("failed to read page info: %w", err)
	}
	return entity.ParseLocation(info.URL)
}

func (b *BrowserAdapter) Has(ctx context.Context, selector string) (bool, error) {
	if strings.TrimSpace(selector) == "" {
		return false, ErrInvalidSelector
	}
	page, err := b.pageFor(ctx)
	if err != nil {
		return false, err
	}
	has, _, err := page.Has(selector)
	if err != nil {
		return false, fmt.Errorf("query %s: %w", selector, err)
	}
	return has, nil
}

func (b *BrowserAdapter) Count(ctx context.Context, selector string) (int, error) {
	if strings.TrimSpace(selector) == "" {
		return 0, ErrInvalidSelector
	}
	page, err := b.pageFor(ctx)
	if err != nil {
		return 0, err
	}
	els, err := page.Elements(selector)
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", selector, err)
	}
	return len(els), nil
}

// element looks the selector up once, without waiting for it to appear.
func (b *BrowserAdapter) element(ctx context.Context, selector string) (*rod.Element, error) {
	if strings.TrimSpace(selector) == "" {
		return nil, ErrInvalidSelector
	}
	page, err := b.pageFor(ctx)
	if err != nil {
		return nil, err
	}
	has, el, err := page.Has(selector)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", selector, err)
	}
	if !has {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	return el, nil
}

func (b *BrowserAdapter) Text(ctx context.Context, selector string) (string, error) {
	el, err := b.element(ctx, selector)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("read text of %s: %w", selector, err)
	}
	return text, nil
}

func (b *BrowserAdapter) Value(ctx context.Context, selector string) (string, error) {
	el, err := b.element(ctx, selector)
	if err != nil {
		return "", err
	}
	v, err := el.Property("value")
	if err != nil {
		return "", fmt.Errorf("read value of %s: %w", selector, err)
	}
	if v.Nil() {
		return "", nil
	}
	return v.Str(), nil
}

func (b *BrowserAdapter) HTML(ctx context.Context, selector string) (string, error) {
	el, err := b.element(ctx, selector)
	if err != nil {
		return "", err
	}
	html, err := el.HTML()
	if err != nil {
		return "", fmt.Errorf("read html of %s: %w", selector, err)
	}
	return html, nil
}

func (b *BrowserAdapter) RegionText(ctx context.Context, selector string) (string, error) {
	html, err := b.HTML(ctx, selector)
	if err != nil {
		return "", err
	}
	return FragmentText(html), nil
}

func (b *BrowserAdapter) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	el, err := b.element(ctx, selector)
	if err != nil {
		return "", false, err
	}
	attr, err := el.Attribute(name)
	if err != nil {
		return "", false, fmt.Errorf("read attribute %s of %s: %w", name, selector, err)
	}
	if attr == nil {
		return "", false, nil
	}
	return *attr, true, nil
}

// Click triggers the element's click handler once, the same way page scripts
// do, without moving the mouse.
func (b *BrowserAdapter) Click(ctx context.Context, selector string) error {
	el, err := b.element(ctx, selector)
	if err != nil {
		return err
	}
	if _, err := el.Eval(`() => this.click()`); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

func (b *BrowserAdapter) ClearEditable(ctx context.Context, selector string) error {
	el, err := b.element(ctx, selector)
	if err != nil {
		return err
	}
	_, err = el.Eval(`() => {
		this.innerHTML = '<p><br></p>';
		this.dispatchEvent(new Event('input', { bubbles: true }));
	}`)
	if err != nil {
		return fmt.Errorf("clear %s: %w", selector, err)
	}
	return nil
}

func (b *BrowserAdapter) SetHash(ctx context.Context, hash string) error {
	page, err := b.pageFor(ctx)
	if err != nil {
		return err
	}
	if _, err := page.Eval(`h => { window.location.hash = h }`, hash); err != nil {
		return fmt.Errorf("set hash %s: %w", hash, err)
	}
	return nil
}

func (b *BrowserAdapter) Navigate(ctx context.Context, rawURL string) error {
	if err := validateURL(rawURL); err != nil {
		return err
	}
	page, err := b.pageFor(ctx)
	if err != nil {
		return err
	}
	if err := page.Navigate(rawURL); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.Timeout(b.GetTimeout()).WaitLoad(); err != nil {
		return fmt.Errorf("page did not load: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if strings.TrimSpace(selector) == "" {
		return ErrInvalidSelector
	}
	page, err := b.pageFor(ctx)
	if err != nil {
		return err
	}
	if timeout <= 0 {
		timeout = b.GetTimeout()
	}
	if _, err := page.Timeout(timeout).Element(selector); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w waiting for %s", ErrTimeout, selector)
		}
		return fmt.Errorf("wait for %s: %w", selector, err)
	}
	return nil
}

func (b *BrowserAdapter) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	page, err := b.pageFor(ctx)
	if err != nil {
		return nil, err
	}
	imgBytes, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return downscale(imgBytes)
}

func downscale(data []byte) (*entity.Screenshot, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > screenshotMaxWidth {
		img = imaging.Resize(img, screenshotMaxWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: screenshotQuality}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

// Close releases the browser. An attached browser is left running.
func (b *BrowserAdapter) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true

	if b.launcher != nil {
		if b.browser != nil {
			_ = b.browser.Close()
		}
		cleanupLauncher(b.launcher)
	}
}

func cleanupLauncher(l *launcher.Launcher) {
	if l == nil {
		return
	}
	l.Kill()
	l.Cleanup()
}

func validateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	switch u.Scheme {
	case "http", "https", "file", "about":
		return nil
	default:
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
}
