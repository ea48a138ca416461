package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go-jobclaw-scraper/internal/analyzer"
	"go-jobclaw-scraper/internal/browser"
	"go-jobclaw-scraper/internal/config"
	"go-jobclaw-scraper/internal/normalize"
	"go-jobclaw-scraper/internal/query"
	"go-jobclaw-scraper/internal/reporter"
	"go-jobclaw-scraper/internal/scrape"
	"go-jobclaw-scraper/internal/session"
	"go-jobclaw-scraper/internal/tracker"
)

func main() {
	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Keywords: %q, geoId: %s", cfg.Keywords, cfg.GeoID)

	//init telegram reporter if configured
	var tg *reporter.TelegramReporter
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		var err error
		tg, err = reporter.NewTelegramReporter(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("❌ Failed to init Telegram reporter: %v", err)
		}
		log.Println("🤖 Telegram reporter initialized.")
	}

	//setup context with timeout = 15 mins, enough for manual verification
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	log.Println("🚀 Starting LinkedIn job scrape...")

	//init playwright manager
	mgr, err := browser.NewManager()
	if err != nil {
		log.Fatalf("❌ Failed to init Playwright: %v", err)
	}
	defer mgr.Close()

	orch := scrape.New(mgr).WithScreenshots(browser.NewScreenShotDebugger())

	params := scrape.Params{
		Search: query.Search{
			Keywords:        cfg.Keywords,
			GeoID:           cfg.GeoID,
			TimePosted:      cfg.TimePosted,
			JobType:         cfg.JobType,
			ExperienceLevel: cfg.ExperienceLevel,
			Count:           cfg.Count,
			StartPage:       cfg.StartPage,
		},
		Account: session.Account{
			Email:    cfg.Email,
			Password: cfg.Password,
		},
	}

	//consume the event stream; drain it fully so the browser is released
	//before any exit
	var result *normalize.ResultSet
	failure := ""
	for ev := range orch.Run(ctx, params) {
		switch ev.Type {
		case scrape.EventProgress:
			log.Println(ev.Message)
		case scrape.EventError:
			failure = ev.Message
		case scrape.EventComplete:
			result = ev.Result
		}
	}
	if failure != "" {
		if tg != nil {
			tg.SendError(fmt.Errorf("%s", failure))
		}
		log.Fatalf("❌ Scrape failed: %s", failure)
	}
	if result == nil {
		log.Fatal("❌ Scrape ended without a result")
	}

	//save results
	saveResults(cfg.LogsPath, result)

	//print analysis report
	fmt.Println(analyzer.Analyze(result))

	//deliver to telegram, suppressing blacklisted companies
	if tg != nil {
		store := tracker.NewStore(cfg.TrackerPath)
		sent := 0
		for _, job := range result.Jobs {
			if store.IsBlacklisted(job.Company) {
				log.Printf("🚫 Skipped blacklisted company: %s", job.Company)
				continue
			}
			if err := tg.SendJob(job); err != nil {
				log.Printf("⚠️ Failed to send job to Telegram: %v", err)
			}
			sent++
			//1 second delay to avoid 429
			time.Sleep(1 * time.Second)
		}
		statusMsg := fmt.Sprintf("✅ Scrape finished: %d jobs, sent %d.", len(result.Jobs), sent)
		if err := tg.SendStatus(statusMsg); err != nil {
			log.Printf("⚠️ Failed to send status to Telegram: %v", err)
		}
	}

	log.Println("🏁 Execution finished.")
}

func saveResults(logsDir string, result *normalize.ResultSet) {
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create logs directory: %v", err)
		return
	}

	//gen filename: job-search-YYYY-MM-DD.json
	filename := fmt.Sprintf("job-search-%s.json", time.Now().Format("2006-01-02"))
	filePath := filepath.Join(logsDir, filename)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal results to JSON: %v", err)
		return
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write results file: %v", err)
		return
	}

	log.Printf("📁 Results saved to %s", filePath)
}
