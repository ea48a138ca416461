// Voyager job-search query construction. The upstream endpoint parses its
// own structured-query syntax, so the clause goes on the URL verbatim,
// never URL-encoded.

package query

import (
	"fmt"
	"strings"
)

const (
	endpoint     = "https://www.linkedin.com/voyager/api/voyagerJobsDashJobCards"
	decorationID = "com.linkedin.voyager.dash.deco.jobs.search.JobSearchCardsCollection-220"
	originTag    = "JOB_SEARCH_PAGE_JOB_FILTER"
)

// Search holds one page worth of search parameters. The filters keep their
// upstream sentinel values: "any" or empty for time posted, "all" for job
// type and experience level mean "not set" and are omitted from the query.
type Search struct {
	Keywords        string
	GeoID           string
	TimePosted      string //r86400, r604800, r2592000
	JobType         string //F, P, C, T, I
	ExperienceLevel string //1..6
	Count           int
	StartPage       int
}

// Clause renders the structured query. Filters the caller left at their
// default never appear; the upstream API treats an omitted filter
// differently from one set to a default value.
func Clause(s Search) string {
	q := fmt.Sprintf("(origin:%s,keywords:%s,locationUnion:(geoId:%s)", originTag, s.Keywords, s.GeoID)

	var filters []string
	if s.TimePosted != "" && s.TimePosted != "any" {
		filters = append(filters, fmt.Sprintf("timePostedRange:List(%s)", s.TimePosted))
	}
	if s.JobType != "" && s.JobType != "all" {
		filters = append(filters, fmt.Sprintf("jobType:List(%s)", s.JobType))
	}
	if s.ExperienceLevel != "" && s.ExperienceLevel != "all" {
		filters = append(filters, fmt.Sprintf("experienceLevel:List(%s)", s.ExperienceLevel))
	}
	if len(filters) > 0 {
		q += ",selectedFilters:(" + strings.Join(filters, ",") + ")"
	}

	return q + ",spellCorrectionEnabled:true)"
}

// Offset is the absolute result offset of the requested page.
func Offset(s Search) int {
	return s.StartPage * s.Count
}

// RequestURL combines the fixed endpoint, the result-shape decoration, the
// page size, the raw query clause and the computed offset.
func RequestURL(s Search) string {
	return fmt.Sprintf("%s?decorationId=%s&count=%d&q=jobSearch&query=%s&start=%d",
		endpoint, decorationID, s.Count, Clause(s), Offset(s))
}
