// Top-level driver of one scrape run: login, query construction, API
// fetch, normalization, all reported to the caller as an event stream.

package scrape

import (
	"context"
	"encoding/json"
	"fmt"

	"go-jobclaw-scraper/internal/browser"
	"go-jobclaw-scraper/internal/normalize"
	"go-jobclaw-scraper/internal/query"
	"go-jobclaw-scraper/internal/session"
)

// snippet length of the upstream body included in fetch failure messages
const errorBodyLimit = 300

// Params is the immutable input of one run. Credentials travel in-band and
// are never persisted by the engine.
type Params struct {
	Search  query.Search
	Account session.Account
}

type Orchestrator struct {
	launcher browser.Launcher
	defaults normalize.Defaults
	shots    *browser.ScreenShotDebugger
}

func New(launcher browser.Launcher) *Orchestrator {
	return &Orchestrator{
		launcher: launcher,
		defaults: normalize.StandardDefaults(),
	}
}

// WithDefaults overrides the normalization fallbacks.
func (o *Orchestrator) WithDefaults(d normalize.Defaults) *Orchestrator {
	o.defaults = d
	return o
}

// WithScreenshots enables challenge-state captures during login.
func (o *Orchestrator) WithScreenshots(shots *browser.ScreenShotDebugger) *Orchestrator {
	o.shots = shots
	return o
}

// Run starts one scrape and returns its event stream. The channel carries
// Progress events followed by exactly one Complete or Error, then closes.
// Cancelling ctx abandons the run; the browser is released either way.
func (o *Orchestrator) Run(ctx context.Context, p Params) <-chan Event {
	events := make(chan Event)
	go func() {
		defer close(events)

		emit := func(ev Event) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		//a panic anywhere in the run must surface as a failure event, not
		//take down the host process
		defer func() {
			if r := recover(); r != nil {
				emit(errorEvent(fmt.Sprintf("💥 Scraping error: %v", r)))
			}
		}()

		o.run(ctx, p, emit)
	}()
	return events
}

func (o *Orchestrator) run(ctx context.Context, p Params, emit func(Event) bool) {
	progress := func(msg string) { emit(progressEvent(msg)) }

	mgr := session.NewManager(o.launcher, progress)
	if o.shots != nil {
		mgr.WithScreenshots(o.shots)
	}

	surface, creds, err := mgr.Login(ctx, p.Account)
	if err != nil {
		emit(errorEvent(fmt.Sprintf("❌ %v", err)))
		return
	}
	defer surface.Close()

	apiURL := query.RequestURL(p.Search)
	progress("🔍 Fetching job data from LinkedIn API...")
	progress(fmt.Sprintf("📡 API URL: %s", apiURL))

	status, body, err := surface.Get(apiURL, voyagerHeaders(creds))
	if err != nil {
		emit(errorEvent(fmt.Sprintf("❌ Failed to fetch API: %v", err)))
		return
	}
	if status < 200 || status >= 300 {
		emit(errorEvent(fmt.Sprintf("❌ Failed to fetch API: %d - %s", status, bodySnippet(body))))
		return
	}

	progress("⚙️ Processing and filtering job data...")

	var raw normalize.RawPayload
	if err := json.Unmarshal(body, &raw); err != nil {
		emit(errorEvent(fmt.Sprintf("❌ Failed to decode API payload: %v", err)))
		return
	}

	result := normalize.New(o.defaults).Normalize(&raw)
	progress(fmt.Sprintf("✅ Successfully processed %d jobs", len(result.Jobs)))

	emit(completeEvent(result))
}

// voyagerHeaders builds the header set the Voyager API expects on
// authenticated calls.
func voyagerHeaders(creds *session.Credentials) map[string]string {
	return map[string]string{
		"authority":                 "www.linkedin.com",
		"accept":                    "application/vnd.linkedin.normalized+json+2.1",
		"csrf-token":                creds.CSRFToken,
		"x-restli-protocol-version": "2.0.0",
		"user-agent":                "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:140.0) Gecko/20100101 Firefox/140.0",
		"cookie":                    creds.CookieHeader,
	}
}

func bodySnippet(body []byte) string {
	if len(body) > errorBodyLimit {
		return string(body[:errorBodyLimit]) + "..."
	}
	return string(body)
}
