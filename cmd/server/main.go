package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"go-jobclaw-scraper/internal/browser"
	"go-jobclaw-scraper/internal/query"
	"go-jobclaw-scraper/internal/scrape"
	"go-jobclaw-scraper/internal/session"
)

// scrapeRequest is the JSON body of POST /api/scrape.
type scrapeRequest struct {
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	Keywords        string `json:"keywords" binding:"required"`
	GeoID           string `json:"geoId" binding:"required"`
	TimePosted      string `json:"timePosted"`
	JobType         string `json:"jobType"`
	ExperienceLevel string `json:"experienceLevel"`
	Count           int    `json:"count"`
	StartPage       int    `json:"startPage"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	mgr, err := browser.NewManager()
	if err != nil {
		log.Fatalf("❌ Failed to init Playwright: %v", err)
	}
	defer mgr.Close()

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Job scrape API is running!",
			"status":  "healthy",
		})
	})

	r.POST("/api/scrape", handleScrape(mgr))

	log.Printf("Server listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// handleScrape streams the run's events as Server-Sent Events, one data
// frame per event, flushed as produced. Closing the connection cancels the
// run and tears the browser down.
func handleScrape(launcher browser.Launcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req scrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Count == 0 {
			req.Count = 25
		}

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")

		params := scrape.Params{
			Search: query.Search{
				Keywords:        req.Keywords,
				GeoID:           req.GeoID,
				TimePosted:      req.TimePosted,
				JobType:         req.JobType,
				ExperienceLevel: req.ExperienceLevel,
				Count:           req.Count,
				StartPage:       req.StartPage,
			},
			Account: session.Account{
				Email:    req.Email,
				Password: req.Password,
			},
		}

		orch := scrape.New(launcher)
		events := orch.Run(c.Request.Context(), params)

		c.Stream(func(w io.Writer) bool {
			ev, ok := <-events
			if !ok {
				return false
			}
			writeFrame(c, ev)
			return true
		})
	}
}

func writeFrame(c *gin.Context, ev scrape.Event) {
	var frame gin.H
	switch ev.Type {
	case scrape.EventProgress:
		frame = gin.H{"type": "progress", "message": ev.Message}
	case scrape.EventComplete:
		frame = gin.H{"type": "complete", "data": ev.Result}
	case scrape.EventError:
		frame = gin.H{"type": "error", "message": ev.Message}
	}

	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("⚠️ Failed to marshal event: %v", err)
		return
	}
	fmt.Fprintf(c.Writer, "data: %s\n\n", data)
	c.Writer.Flush()
}
