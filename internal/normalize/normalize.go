// Pure transformation from the raw Voyager payload to flat job records.
// No I/O, no external state: the same payload always yields the same
// result set, save for the generation timestamp.

package normalize

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const jobViewURL = "https://www.linkedin.com/jobs/view/"

var (
	digitRunRegex   = regexp.MustCompile(`\d+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	benefitsRegex   = regexp.MustCompile(`(\d+)\s+benefit`)
)

// benefit keywords scanned for when the text carries no "<N> benefit" pattern
var benefitKeywords = []string{"401(k)", "Medical", "Vision"}

// Defaults are the fallback literals used when the payload omits a field.
// They are injected rather than embedded so tests can override them.
type Defaults struct {
	SearchQuery      string
	Location         string
	PerPage          int
	CompanyFallback  string
	LocationFallback string
}

func StandardDefaults() Defaults {
	return Defaults{
		SearchQuery:      "angular",
		Location:         "United States",
		PerPage:          25,
		CompanyFallback:  "Unknown Company",
		LocationFallback: "Location not specified",
	}
}

type Normalizer struct {
	defaults Defaults
}

func New(defaults Defaults) *Normalizer {
	return &Normalizer{defaults: defaults}
}

// Normalize joins search cards to their postings and derives one Job per
// matched pair. Cards without a title, without digits in their posting
// reference, or without a matching posting are expected upstream noise and
// are dropped silently.
func (n *Normalizer) Normalize(raw *RawPayload) *ResultSet {
	//the company index is assembled for parity with the upstream payload,
	//but card text stays authoritative for the company field
	postings, cards, _ := partition(raw.Included)

	jobs := make([]Job, 0, len(cards))
	for _, card := range cards {
		id := extractJobID(card.JobPostingURN)
		if id == "" || card.Title == nil {
			continue
		}

		posting, ok := matchPosting(postings, id)
		if !ok {
			continue
		}

		jobs = append(jobs, buildJob(id, card, posting, n.defaults))
	}

	sortByPostedAt(jobs)

	return &ResultSet{
		Metadata: n.buildMetadata(raw),
		Jobs:     jobs,
	}
}

type company struct {
	name    string
	logoURL string
}

// partition splits the included collection by its $type discriminator.
func partition(included []RawEntity) (postings, cards []RawEntity, companies map[string]company) {
	companies = make(map[string]company)
	for _, item := range included {
		switch item.Type {
		case typeJobPosting:
			postings = append(postings, item)
		case typeJobPostingCard:
			if strings.Contains(item.EntityURN, searchScopeMarker) {
				cards = append(cards, item)
			}
		case typeCompany:
			logoURL := ""
			if item.Logo != nil && item.Logo.VectorImage != nil {
				logoURL = item.Logo.VectorImage.RootURL
			}
			companies[item.EntityURN] = company{
				name:    companyNameFromURN(item.EntityURN),
				logoURL: logoURL,
			}
		}
	}
	return postings, cards, companies
}

func companyNameFromURN(urn string) string {
	if i := strings.Index(urn, "company:"); i >= 0 {
		if id := digitRunRegex.FindString(urn[i:]); id != "" {
			return "Company_" + id
		}
	}
	return "Unknown Company"
}

// extractJobID returns the first digit run of the posting reference, or ""
// when there is none.
func extractJobID(postingURN string) string {
	return digitRunRegex.FindString(postingURN)
}

func matchPosting(postings []RawEntity, id string) (RawEntity, bool) {
	for _, p := range postings {
		if strings.Contains(p.EntityURN, id) {
			return p, true
		}
	}
	return RawEntity{}, false
}

func buildJob(id string, card, posting RawEntity, defaults Defaults) Job {
	job := Job{
		ID:           id,
		Title:        cleanTitle(card.Title.Text),
		Company:      textOrFallback(card.PrimaryDescription, defaults.CompanyFallback),
		Location:     textOrFallback(card.SecondaryDescription, defaults.LocationFallback),
		Salary:       optionalText(card.TertiaryDescription),
		PostedAt:     extractPostedAt(card.FooterItems),
		IsPromoted:   hasFooterItem(card.FooterItems, footerPromoted),
		IsEasyApply:  hasFooterItem(card.FooterItems, footerEasyApply),
		IsVerified:   card.JobPostingVerificationURN != "",
		IsReposted:   posting.RepostedJob,
		ActionTarget: jobViewURL + id,
		CompanyLogo:  extractCompanyLogo(card.Logo),
	}

	if card.TrackingID != "" {
		job.TrackingID = strptr(card.TrackingID)
	}
	if card.RelevanceInsight != nil && card.RelevanceInsight.Text.Text != "" {
		job.RelevanceInsight = strptr(card.RelevanceInsight.Text.Text)
	}
	if card.TertiaryDescription != nil {
		job.Benefits = extractBenefits(card.TertiaryDescription.Text)
	}
	job.JobCategory = extractJobCategory(job.Location)

	return job
}

// cleanTitle collapses internal whitespace runs to single spaces and trims
// the ends.
func cleanTitle(title string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(title, " "))
}

func textOrFallback(t *RawText, fallback string) string {
	if t == nil || t.Text == "" {
		return fallback
	}
	return t.Text
}

func optionalText(t *RawText) *string {
	if t == nil || t.Text == "" {
		return nil
	}
	return strptr(t.Text)
}

func extractPostedAt(items []RawFooterItem) *time.Time {
	for _, item := range items {
		if item.Type == footerListedDate && item.TimeAt > 0 {
			ts := time.UnixMilli(item.TimeAt).UTC()
			return &ts
		}
	}
	return nil
}

func hasFooterItem(items []RawFooterItem, kind string) bool {
	for _, item := range items {
		if item.Type == kind {
			return true
		}
	}
	return false
}

func extractCompanyLogo(logo *RawLogo) *string {
	if logo == nil {
		return nil
	}
	if len(logo.Attributes) > 0 && logo.Attributes[0].DetailDataUnion.CompanyLogo != "" && logo.ActionTarget != "" {
		return strptr(logo.ActionTarget)
	}
	return nil
}

// extractBenefits returns a count when the text carries a "<N> benefit"
// pattern, otherwise the subset of known benefit keywords found in the
// text, otherwise nil.
func extractBenefits(text string) *Benefits {
	if text == "" {
		return nil
	}

	if m := benefitsRegex.FindStringSubmatch(text); m != nil {
		count, err := strconv.Atoi(m[1])
		if err == nil {
			return &Benefits{Count: count}
		}
	}

	var found []string
	for _, keyword := range benefitKeywords {
		if strings.Contains(text, keyword) {
			found = append(found, keyword)
		}
	}
	if len(found) > 0 {
		return &Benefits{List: found}
	}
	return nil
}

// extractJobCategory derives remote/hybrid/on-site from the location text,
// defaulting to On-site when indeterminate.
func extractJobCategory(location string) string {
	folded := foldText(location)
	switch {
	case strings.Contains(folded, "remote"):
		return "Remote"
	case strings.Contains(folded, "hybrid"):
		return "Hybrid"
	default:
		return "On-site"
	}
}

// foldText strips diacritics and lowercases for robust keyword matching.
func foldText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)
	return strings.ToLower(result)
}

// sortByPostedAt orders jobs newest first; undated records sort after all
// dated ones (a nil date counts as earliest).
func sortByPostedAt(jobs []Job) {
	sort.SliceStable(jobs, func(i, j int) bool {
		a, b := jobs[i].PostedAt, jobs[j].PostedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}

func (n *Normalizer) buildMetadata(raw *RawPayload) Metadata {
	md := Metadata{
		TotalResults:   raw.Data.Paging.Total,
		CurrentPage:    raw.Data.Paging.Start/n.defaults.PerPage + 1,
		ResultsPerPage: raw.Data.Paging.Count,
		SearchQuery:    raw.Data.Metadata.Keywords,
		Location:       raw.Data.Metadata.Title.Text,
		GeneratedAt:    time.Now().UTC(),
	}
	if md.ResultsPerPage == 0 {
		md.ResultsPerPage = n.defaults.PerPage
	}
	if md.SearchQuery == "" {
		md.SearchQuery = n.defaults.SearchQuery
	}
	if md.Location == "" {
		md.Location = n.defaults.Location
	}
	return md
}

func strptr(s string) *string {
	return &s
}
