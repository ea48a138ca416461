// Caller-side disposition store: which jobs were applied to and which
// companies the user ruled out. The scrape engine itself never reads or
// writes this state.

package tracker

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

type Status string

const (
	StatusApplied            Status = "applied"
	StatusInterviewScheduled Status = "interview_scheduled"
	StatusInterviewed        Status = "interviewed"
	StatusOfferReceived      Status = "offer_received"
	StatusRejected           Status = "rejected"
)

// Application is one tracked job disposition, keyed by the job id.
type Application struct {
	JobID     string `json:"job_id"`
	Title     string `json:"title"`
	Company   string `json:"company"`
	Status    Status `json:"status"`
	Notes     string `json:"notes,omitempty"`
	AppliedAt int64  `json:"applied_at"`
}

type storeFile struct {
	Applications []Application `json:"applications"`
	Blacklisted  []string      `json:"blacklisted_companies"`
}

// Store persists applications and the company blacklist as a JSON file.
type Store struct {
	mu        sync.Mutex
	filePath  string
	apps      map[string]Application
	blacklist map[string]bool
}

// NewStore creates or loads the tracker file under dir.
func NewStore(dir string) *Store {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("⚠️ Failed to create tracker directory: %v", err)
	}
	s := &Store{
		filePath:  filepath.Join(dir, "applications.json"),
		apps:      make(map[string]Application),
		blacklist: make(map[string]bool),
	}
	s.load()
	return s
}

// Record upserts an application. A zero AppliedAt is stamped with now.
func (s *Store) Record(app Application) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if app.AppliedAt == 0 {
		app.AppliedAt = time.Now().UnixMilli()
	}
	s.apps[app.JobID] = app
	s.save()
}

func (s *Store) Get(jobID string) (Application, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[jobID]
	return app, ok
}

// Applications returns all tracked applications, newest first.
func (s *Store) Applications() []Application {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps := make([]Application, 0, len(s.apps))
	for _, app := range s.apps {
		apps = append(apps, app)
	}
	sort.Slice(apps, func(i, j int) bool {
		return apps[i].AppliedAt > apps[j].AppliedAt
	})
	return apps
}

// BlacklistCompany marks a company so its listings get suppressed from
// delivery.
func (s *Store) BlacklistCompany(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.blacklist[name] {
		return
	}
	s.blacklist[name] = true
	s.save()
}

func (s *Store) IsBlacklisted(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blacklist[name]
}

// load reads the tracker file into the in-memory maps
func (s *Store) load() {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read applications.json: %v", err)
		}
		return
	}

	var file storeFile
	if err := json.Unmarshal(data, &file); err != nil {
		log.Printf("⚠️ Failed to parse applications.json: %v", err)
		return
	}

	for _, app := range file.Applications {
		s.apps[app.JobID] = app
	}
	for _, name := range file.Blacklisted {
		s.blacklist[name] = true
	}
	log.Printf("📋 Loaded %d tracked applications, %d blacklisted companies", len(s.apps), len(s.blacklist))
}

// save writes the current state to disk; callers hold the mutex
func (s *Store) save() {
	file := storeFile{
		Applications: make([]Application, 0, len(s.apps)),
		Blacklisted:  make([]string, 0, len(s.blacklist)),
	}
	for _, app := range s.apps {
		file.Applications = append(file.Applications, app)
	}
	for name := range s.blacklist {
		file.Blacklisted = append(file.Blacklisted, name)
	}
	sort.Slice(file.Applications, func(i, j int) bool {
		return file.Applications[i].JobID < file.Applications[j].JobID
	})
	sort.Strings(file.Blacklisted)

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal tracker state: %v", err)
		return
	}
	if err := os.WriteFile(s.filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write applications.json: %v", err)
	}
}
