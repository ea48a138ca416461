package browser

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:140.0) Gecko/20100101 Firefox/140.0"

const navigationTimeoutMs = 30000

// Cookie is the subset of browser cookie data the scraper cares about.
type Cookie struct {
	Name  string
	Value string
}

// Surface is the capability contract the login flow and the API fetch run
// against. The real implementation drives a Playwright page; tests swap in
// fakes.
type Surface interface {
	//Navigate loads url and waits for the DOM to settle
	Navigate(url string) error

	//Fill types value into the element matching selector
	Fill(selector, value string) error

	//Submit clicks selector and waits for the resulting navigation
	Submit(selector string) error

	//CurrentURL returns the address the surface currently shows
	CurrentURL() string

	//WaitMillis blocks for the given number of milliseconds
	WaitMillis(ms int)

	//Cookies returns all cookies of the browser context
	Cookies() ([]Cookie, error)

	//Get performs an authenticated GET through the browser context
	Get(url string, headers map[string]string) (int, []byte, error)

	//Screenshot captures the current page to path
	Screenshot(path string) error

	//Close releases the underlying browser; safe to call more than once
	Close() error
}

// Launcher creates isolated surfaces. Each scrape run launches its own so
// no browser state is shared across runs.
type Launcher interface {
	Launch(headless bool) (Surface, error)
}

// Manager owns the Playwright driver process and hands out surfaces.
type Manager struct {
	pw *playwright.Playwright
}

func NewManager() (*Manager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright driver: %w", err)
	}
	return &Manager{pw: pw}, nil
}

// Launch starts a fresh Chromium instance with its own context and page.
// Visible mode slows actions down and uses the full screen so a person can
// take over the page.
func (m *Manager) Launch(headless bool) (Surface, error) {
	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		SlowMo:   playwright.Float(500),
	}
	if !headless {
		launchOpts.SlowMo = playwright.Float(1000)
		launchOpts.Args = []string{"--start-maximized"}
	}

	b, err := m.pw.Chromium.Launch(launchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}

	ctxOpts := playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
	}
	if !headless {
		//full screen so the person solving the challenge sees the whole page
		ctxOpts.NoViewport = playwright.Bool(true)
	}

	ctx, err := b.NewContext(ctxOpts)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := ctx.NewPage()
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &pageSurface{browser: b, ctx: ctx, page: page, headless: headless}, nil
}

func (m *Manager) Close() error {
	return m.pw.Stop()
}

type pageSurface struct {
	browser  playwright.Browser
	ctx      playwright.BrowserContext
	page     playwright.Page
	headless bool
	closed   bool
}

func (s *pageSurface) Navigate(url string) error {
	if _, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(navigationTimeoutMs),
	}); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	//light human noise after each load; failures here never matter
	if s.headless {
		_ = MouseJiggle(s.page)
	}
	return nil
}

func (s *pageSurface) Fill(selector, value string) error {
	RandomDelay(200, 600)
	return s.page.Fill(selector, value)
}

func (s *pageSurface) Submit(selector string) error {
	_, err := s.page.ExpectNavigation(func() error {
		return s.page.Click(selector)
	}, playwright.PageExpectNavigationOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(navigationTimeoutMs),
	})
	return err
}

func (s *pageSurface) CurrentURL() string {
	return s.page.URL()
}

func (s *pageSurface) WaitMillis(ms int) {
	s.page.WaitForTimeout(float64(ms))
}

func (s *pageSurface) Cookies() ([]Cookie, error) {
	raw, err := s.ctx.Cookies()
	if err != nil {
		return nil, fmt.Errorf("failed to read context cookies: %w", err)
	}
	cookies := make([]Cookie, 0, len(raw))
	for _, c := range raw {
		cookies = append(cookies, Cookie{Name: c.Name, Value: c.Value})
	}
	return cookies, nil
}

func (s *pageSurface) Get(url string, headers map[string]string) (int, []byte, error) {
	resp, err := s.ctx.Request().Get(url, playwright.APIRequestContextGetOptions{
		Headers: headers,
	})
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	body, err := resp.Body()
	if err != nil {
		return resp.Status(), nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.Status(), body, nil
}

func (s *pageSurface) Screenshot(path string) error {
	_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (s *pageSurface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.browser.Close()
}

// CookieHeader joins cookies into a single Cookie request header value.
func CookieHeader(cookies []Cookie) string {
	pairs := make([]string, 0, len(cookies))
	for _, c := range cookies {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; ")
}
