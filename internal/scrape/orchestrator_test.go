package scrape

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobclaw-scraper/internal/browser"
	"go-jobclaw-scraper/internal/query"
	"go-jobclaw-scraper/internal/session"
)

const samplePayloadJSON = `{
	"data": {
		"paging": {"total": 2, "start": 0, "count": 25},
		"metadata": {"keywords": "angular", "title": {"text": "United States"}}
	},
	"included": [
		{
			"$type": "com.linkedin.voyager.dash.jobs.JobPostingCard",
			"entityUrn": "urn:li:fsd_jobPostingCard:(111,JOBS_SEARCH)",
			"jobPostingUrn": "urn:li:fsd_jobPosting:111",
			"title": {"text": "Angular Developer"},
			"primaryDescription": {"text": "Acme"},
			"secondaryDescription": {"text": "Remote"}
		},
		{
			"$type": "com.linkedin.voyager.dash.jobs.JobPosting",
			"entityUrn": "urn:li:fsd_jobPosting:111"
		}
	]
}`

// stubSurface always authenticates headlessly and serves a canned API
// response.
type stubSurface struct {
	status  int
	body    []byte
	lastURL string
	headers map[string]string
	closes  int
}

func (s *stubSurface) Navigate(url string) error         { return nil }
func (s *stubSurface) Fill(selector, value string) error { return nil }
func (s *stubSurface) Submit(selector string) error      { return nil }
func (s *stubSurface) CurrentURL() string                { return "https://www.linkedin.com/feed/" }
func (s *stubSurface) WaitMillis(ms int)                 {}
func (s *stubSurface) Screenshot(path string) error      { return nil }

func (s *stubSurface) Cookies() ([]browser.Cookie, error) {
	return []browser.Cookie{{Name: "JSESSIONID", Value: `"ajax:42"`}}, nil
}

func (s *stubSurface) Get(url string, headers map[string]string) (int, []byte, error) {
	s.lastURL = url
	s.headers = headers
	return s.status, s.body, nil
}

func (s *stubSurface) Close() error {
	s.closes++
	return nil
}

type stubLauncher struct {
	surface *stubSurface
}

func (l *stubLauncher) Launch(headless bool) (browser.Surface, error) {
	return l.surface, nil
}

func collectEvents(t *testing.T, events <-chan Event) (progress []string, terminal Event) {
	t.Helper()
	terminalSeen := false
	for ev := range events {
		switch ev.Type {
		case EventProgress:
			assert.False(t, terminalSeen, "no events after the terminal one")
			progress = append(progress, ev.Message)
		default:
			assert.False(t, terminalSeen, "exactly one terminal event")
			terminalSeen = true
			terminal = ev
		}
	}
	require.True(t, terminalSeen, "the stream must end with a terminal event")
	return progress, terminal
}

func runParams() Params {
	return Params{
		Search:  query.Search{Keywords: "angular", GeoID: "103644278", Count: 25, StartPage: 1},
		Account: session.Account{Email: "me@example.com", Password: "pw"},
	}
}

func TestRun_Success(t *testing.T) {
	surface := &stubSurface{status: 200, body: []byte(samplePayloadJSON)}
	orch := New(&stubLauncher{surface: surface})

	progress, terminal := collectEvents(t, orch.Run(context.Background(), runParams()))

	require.Equal(t, EventComplete, terminal.Type)
	require.NotNil(t, terminal.Result)
	require.Len(t, terminal.Result.Jobs, 1)
	assert.Equal(t, "111", terminal.Result.Jobs[0].ID)
	assert.Equal(t, "Remote", terminal.Result.Jobs[0].JobCategory)
	assert.NotEmpty(t, progress)

	//the fetch went through the authenticated surface with Voyager headers
	assert.Contains(t, surface.lastURL, "voyagerJobsDashJobCards")
	assert.Contains(t, surface.lastURL, "start=25")
	assert.Equal(t, "ajax:42", surface.headers["csrf-token"])
	assert.Equal(t, "application/vnd.linkedin.normalized+json+2.1", surface.headers["accept"])
	assert.Contains(t, surface.headers["cookie"], "JSESSIONID")

	assert.Equal(t, 1, surface.closes, "the browser is released when the run ends")
}

func TestRun_UpstreamFailureStatus(t *testing.T) {
	surface := &stubSurface{status: 403, body: []byte(`{"message":"CSRF check failed"}`)}
	orch := New(&stubLauncher{surface: surface})

	_, terminal := collectEvents(t, orch.Run(context.Background(), runParams()))

	require.Equal(t, EventError, terminal.Type)
	assert.Contains(t, terminal.Message, "403")
	assert.Contains(t, terminal.Message, "CSRF check failed")
	assert.Equal(t, 1, surface.closes, "the browser is released on failure too")
}

func TestRun_MalformedPayload(t *testing.T) {
	surface := &stubSurface{status: 200, body: []byte("<html>not json</html>")}
	orch := New(&stubLauncher{surface: surface})

	_, terminal := collectEvents(t, orch.Run(context.Background(), runParams()))

	require.Equal(t, EventError, terminal.Type)
	assert.Contains(t, terminal.Message, "decode")
	assert.Equal(t, 1, surface.closes)
}

func TestRun_LoginFailure(t *testing.T) {
	orch := New(&failingLauncher{})

	_, terminal := collectEvents(t, orch.Run(context.Background(), runParams()))

	require.Equal(t, EventError, terminal.Type)
	assert.Contains(t, terminal.Message, "no browser available")
}

type failingLauncher struct{}

func (l *failingLauncher) Launch(headless bool) (browser.Surface, error) {
	return nil, errors.New("no browser available")
}

func TestRun_CallerAbandons(t *testing.T) {
	surface := &stubSurface{status: 200, body: []byte(samplePayloadJSON)}
	orch := New(&stubLauncher{surface: surface})

	ctx, cancel := context.WithCancel(context.Background())
	events := orch.Run(ctx, runParams())

	//consume one event, then walk away
	<-events
	cancel()

	//the stream must still terminate and the channel close
	for range events {
	}

	assert.Equal(t, 1, surface.closes, "abandoning the run still reclaims the browser")
}
