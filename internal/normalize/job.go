package normalize

import (
	"encoding/json"
	"time"
)

// Job is one normalized listing. Pointer fields are absent from the JSON
// output when nil.
type Job struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Company          string     `json:"company"`
	Location         string     `json:"location"`
	Salary           *string    `json:"salary"`
	PostedAt         *time.Time `json:"postedDate"`
	IsPromoted       bool       `json:"isPromoted"`
	IsEasyApply      bool       `json:"isEasyApply"`
	IsVerified       bool       `json:"isVerified"`
	IsReposted       bool       `json:"isReposted"`
	ActionTarget     string     `json:"actionTarget"`
	TrackingID       *string    `json:"trackingId"`
	CompanyLogo      *string    `json:"companyLogo"`
	RelevanceInsight *string    `json:"relevanceInsight"`
	Benefits         *Benefits  `json:"benefits"`
	JobCategory      string     `json:"jobType"`
}

// Benefits is either a bare count ("12 benefits") or the list of benefit
// keywords found in the salary text. Exactly one of the two is set; on the
// wire it marshals as a number or a string array accordingly, so consumers
// discriminate by JSON type just like the upstream shape.
type Benefits struct {
	Count int
	List  []string
}

func (b Benefits) MarshalJSON() ([]byte, error) {
	if b.List != nil {
		return json.Marshal(b.List)
	}
	return json.Marshal(b.Count)
}

func (b *Benefits) UnmarshalJSON(data []byte) error {
	var count int
	if err := json.Unmarshal(data, &count); err == nil {
		b.Count = count
		b.List = nil
		return nil
	}
	return json.Unmarshal(data, &b.List)
}

// Metadata describes the search that produced a result set.
type Metadata struct {
	TotalResults   int       `json:"totalResults"`
	CurrentPage    int       `json:"currentPage"`
	ResultsPerPage int       `json:"resultsPerPage"`
	SearchQuery    string    `json:"searchQuery"`
	Location       string    `json:"location"`
	GeneratedAt    time.Time `json:"timestamp"`
}

// ResultSet is the terminal value of one successful scrape run.
type ResultSet struct {
	Metadata Metadata `json:"metadata"`
	Jobs     []Job    `json:"jobs"`
}
