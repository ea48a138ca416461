// Login state machine: headless attempt first, visible browser fallback
// when the upstream interposes a verification challenge, then cookie and
// CSRF extraction from the authenticated context.

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-jobclaw-scraper/internal/browser"
)

const (
	loginURL = "https://www.linkedin.com/login"

	usernameSelector = "input#username"
	passwordSelector = "input#password"
	submitSelector   = `button[type="submit"]`

	//cookie carrying the CSRF value on linkedin.com
	sessionCookieName = "JSESSIONID"

	pollIntervalMs  = 5000
	maxPollAttempts = 60
)

var (
	//ErrChallengeTimeout means the person never finished the manual verification
	ErrChallengeTimeout = errors.New("login timeout: manual verification was not completed in time")

	//ErrMissingCSRF means login looked successful but the session cookie was absent
	ErrMissingCSRF = errors.New("could not extract CSRF token: login may have failed")
)

// markers that indicate the login flow was interrupted by a challenge
var challengeMarkers = []string{"/checkpoint", "login", "challenge"}

// Account is one login identity. It lives only for the duration of a run
// and is never persisted.
type Account struct {
	Email    string
	Password string
}

// Credentials are the session artifacts extracted after a successful login.
type Credentials struct {
	CookieHeader string
	CSRFToken    string
}

// Manager drives the authentication state machine. Progress messages go to
// the supplied callback so the caller can stream them.
type Manager struct {
	launcher browser.Launcher
	progress func(string)
	shots    *browser.ScreenShotDebugger
}

func NewManager(launcher browser.Launcher, progress func(string)) *Manager {
	if progress == nil {
		progress = func(string) {}
	}
	return &Manager{launcher: launcher, progress: progress}
}

// WithScreenshots enables challenge-state captures for later inspection.
func (m *Manager) WithScreenshots(shots *browser.ScreenShotDebugger) *Manager {
	m.shots = shots
	return m
}

// Login runs the full state machine and, on success, returns the
// authenticated surface together with the extracted credentials. The caller
// owns closing the returned surface; on error every surface opened along
// the way has already been closed.
func (m *Manager) Login(ctx context.Context, acct Account) (browser.Surface, *Credentials, error) {
	m.progress("🚀 Launching browser...")
	surface, err := m.launcher.Launch(true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to launch headless browser: %w", err)
	}

	surface, err = m.authenticate(ctx, surface, acct)
	if err != nil {
		return nil, nil, err
	}

	m.progress("🔑 Login successful, extracting session data...")
	creds, err := extractCredentials(surface)
	if err != nil {
		surface.Close()
		return nil, nil, err
	}
	return surface, creds, nil
}

// authenticate takes ownership of the headless surface and returns whichever
// surface ended up authenticated. On the challenge path the headless surface
// is closed before the visible one is launched; a failed transition leaves
// no surface open.
func (m *Manager) authenticate(ctx context.Context, surface browser.Surface, acct Account) (browser.Surface, error) {
	m.progress("🌐 Navigating to LinkedIn login...")
	if err := m.submitLogin(surface, acct); err != nil {
		//a navigation timeout here usually means a challenge page; fall
		//through and let the address decide
		m.progress(fmt.Sprintf("⏳ Login navigation did not settle: %v", err))
	}

	addr := surface.CurrentURL()
	m.progress(fmt.Sprintf("Login attempt completed. Current URL: %s", addr))

	if !isChallenged(addr) {
		m.progress("✅ Login successful without CAPTCHA!")
		return surface, nil
	}

	m.progress("⚠️ CAPTCHA or verification detected! Switching to visible browser mode...")
	if m.shots != nil {
		m.shots.CaptureAndLog(surface, "challenge-detected", "🚨 Challenge page captured before relaunch")
	}
	if err := surface.Close(); err != nil {
		m.progress(fmt.Sprintf("⚠️ Failed to close headless browser: %v", err))
	}

	visible, err := m.launcher.Launch(false)
	if err != nil {
		return nil, fmt.Errorf("failed to launch visible browser: %w", err)
	}

	m.progress("🔓 Browser opened in visible mode. Please solve the verification manually...")
	m.progress("⏳ Waiting for you to complete login manually...")

	//best effort: pre-fill so the person only has to solve the challenge
	if err := m.submitLogin(visible, acct); err != nil {
		m.progress(fmt.Sprintf("⏳ Manual intervention required: %v", err))
	}

	if err := m.pollForCompletion(ctx, visible); err != nil {
		visible.Close()
		return nil, err
	}
	return visible, nil
}

func (m *Manager) submitLogin(surface browser.Surface, acct Account) error {
	if err := surface.Navigate(loginURL); err != nil {
		return err
	}
	if err := surface.Fill(usernameSelector, acct.Email); err != nil {
		return fmt.Errorf("failed to fill username: %w", err)
	}
	if err := surface.Fill(passwordSelector, acct.Password); err != nil {
		return fmt.Errorf("failed to fill password: %w", err)
	}
	return surface.Submit(submitSelector)
}

// pollForCompletion checks the address at a fixed interval until it looks
// authenticated or the attempt budget runs out.
func (m *Manager) pollForCompletion(ctx context.Context, surface browser.Surface) error {
	for attempt := 1; attempt <= maxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		addr := surface.CurrentURL()
		m.progress(fmt.Sprintf("⏳ Waiting for login completion... (%d/%d) - Current URL: %s", attempt, maxPollAttempts, addr))

		if isAuthenticated(addr) {
			m.progress("✅ Login completed successfully!")
			return nil
		}

		surface.WaitMillis(pollIntervalMs)
	}
	return ErrChallengeTimeout
}

func isChallenged(addr string) bool {
	for _, marker := range challengeMarkers {
		if strings.Contains(addr, marker) {
			return true
		}
	}
	return false
}

func isAuthenticated(addr string) bool {
	if strings.Contains(addr, "linkedin.com/feed") || strings.Contains(addr, "linkedin.com/in/") {
		return true
	}
	return strings.Contains(addr, "linkedin.com") && !isChallenged(addr)
}

// extractCredentials pulls the cookie header and CSRF token out of the
// authenticated context. The CSRF value lives in the session cookie,
// wrapped in quotes that must be stripped.
func extractCredentials(surface browser.Surface) (*Credentials, error) {
	cookies, err := surface.Cookies()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate cookies: %w", err)
	}

	csrf := ""
	for _, c := range cookies {
		if c.Name == sessionCookieName {
			csrf = strings.ReplaceAll(c.Value, `"`, "")
			break
		}
	}
	if csrf == "" {
		return nil, ErrMissingCSRF
	}

	return &Credentials{
		CookieHeader: browser.CookieHeader(cookies),
		CSRFToken:    csrf,
	}, nil
}
