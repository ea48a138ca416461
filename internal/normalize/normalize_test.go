package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(urn, postingURN, title string) RawEntity {
	return RawEntity{
		Type:          typeJobPostingCard,
		EntityURN:     urn,
		JobPostingURN: postingURN,
		Title:         &RawText{Text: title},
	}
}

func posting(urn string) RawEntity {
	return RawEntity{Type: typeJobPosting, EntityURN: urn}
}

func samplePayload() *RawPayload {
	older := RawEntity{
		Type:                 typeJobPostingCard,
		EntityURN:            "urn:li:fsd_jobPostingCard:(111,JOBS_SEARCH)",
		JobPostingURN:        "urn:li:fsd_jobPosting:111",
		Title:                &RawText{Text: "Senior   Angular\n Developer "},
		PrimaryDescription:   &RawText{Text: "Acme Corp"},
		SecondaryDescription: &RawText{Text: "Austin, TX (Hybrid)"},
		TertiaryDescription:  &RawText{Text: "$120K/yr - $150K/yr"},
		TrackingID:           "trk-111",
		FooterItems: []RawFooterItem{
			{Type: footerListedDate, TimeAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).UnixMilli()},
			{Type: footerEasyApply},
		},
	}

	newer := RawEntity{
		Type:                      typeJobPostingCard,
		EntityURN:                 "urn:li:fsd_jobPostingCard:(222,JOBS_SEARCH)",
		JobPostingURN:             "urn:li:fsd_jobPosting:222",
		Title:                     &RawText{Text: "Angular Engineer"},
		PrimaryDescription:        &RawText{Text: "Globex"},
		SecondaryDescription:      &RawText{Text: "United States (Remote)"},
		JobPostingVerificationURN: "urn:li:verification:222",
		FooterItems: []RawFooterItem{
			{Type: footerListedDate, TimeAt: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC).UnixMilli()},
			{Type: footerPromoted},
		},
	}

	undated := card("urn:li:fsd_jobPostingCard:(333,JOBS_SEARCH)", "urn:li:fsd_jobPosting:333", "Frontend Developer")

	return &RawPayload{
		Data: RawData{
			Paging:   RawPaging{Total: 900, Start: 25, Count: 25},
			Metadata: RawMetadata{Keywords: "angular", Title: RawText{Text: "United States"}},
		},
		Included: []RawEntity{
			older, newer, undated,
			posting("urn:li:fsd_jobPosting:111"),
			{Type: typeJobPosting, EntityURN: "urn:li:fsd_jobPosting:222", RepostedJob: true},
			posting("urn:li:fsd_jobPosting:333"),
			{Type: typeCompany, EntityURN: "urn:li:fsd_company:4567", Logo: &RawLogo{VectorImage: &RawVector{RootURL: "https://cdn.example/logo/"}}},
		},
	}
}

func TestNormalize_FieldDerivation(t *testing.T) {
	rs := New(StandardDefaults()).Normalize(samplePayload())
	require.Len(t, rs.Jobs, 3)

	//newest first
	job := rs.Jobs[0]
	assert.Equal(t, "222", job.ID)
	assert.Equal(t, "Angular Engineer", job.Title)
	assert.Equal(t, "Globex", job.Company)
	assert.True(t, job.IsPromoted)
	assert.True(t, job.IsVerified)
	assert.True(t, job.IsReposted)
	assert.False(t, job.IsEasyApply)
	assert.Equal(t, "Remote", job.JobCategory)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/222", job.ActionTarget)
	assert.Nil(t, job.Salary)

	older := rs.Jobs[1]
	assert.Equal(t, "111", older.ID)
	assert.Equal(t, "Senior Angular Developer", older.Title, "whitespace runs collapse to single spaces")
	assert.Equal(t, "$120K/yr - $150K/yr", *older.Salary)
	assert.True(t, older.IsEasyApply)
	assert.Equal(t, "Hybrid", older.JobCategory)
	require.NotNil(t, older.TrackingID)
	assert.Equal(t, "trk-111", *older.TrackingID)
}

func TestNormalize_Ordering(t *testing.T) {
	rs := New(StandardDefaults()).Normalize(samplePayload())
	require.Len(t, rs.Jobs, 3)

	for i := 0; i < len(rs.Jobs)-1; i++ {
		a, b := rs.Jobs[i].PostedAt, rs.Jobs[i+1].PostedAt
		if a != nil && b != nil {
			assert.False(t, a.Before(*b), "jobs[%d] must not be older than jobs[%d]", i, i+1)
		}
	}

	//undated records sort after all dated ones
	assert.Nil(t, rs.Jobs[2].PostedAt)
}

func TestNormalize_Idempotent(t *testing.T) {
	n := New(StandardDefaults())

	first := n.Normalize(samplePayload())
	time.Sleep(5 * time.Millisecond)
	second := n.Normalize(samplePayload())

	assert.Equal(t, first.Jobs, second.Jobs)
	assert.Equal(t, first.Metadata.TotalResults, second.Metadata.TotalResults)
	assert.Equal(t, first.Metadata.SearchQuery, second.Metadata.SearchQuery)
	//only the generation timestamp may differ
	assert.True(t, !second.Metadata.GeneratedAt.Before(first.Metadata.GeneratedAt))
}

func TestNormalize_DroppedCards(t *testing.T) {
	payload := &RawPayload{
		Included: []RawEntity{
			//no digits in the posting reference
			card("urn:li:fsd_jobPostingCard:(x,JOBS_SEARCH)", "urn:li:fsd_jobPosting:none", "Ghost Job"),
			//digits but no matching posting
			card("urn:li:fsd_jobPostingCard:(444,JOBS_SEARCH)", "urn:li:fsd_jobPosting:444", "Orphan Job"),
			//matching posting but no title
			{
				Type:          typeJobPostingCard,
				EntityURN:     "urn:li:fsd_jobPostingCard:(555,JOBS_SEARCH)",
				JobPostingURN: "urn:li:fsd_jobPosting:555",
			},
			//card outside the search scope
			card("urn:li:fsd_jobPostingCard:(666,RECOMMENDED)", "urn:li:fsd_jobPosting:666", "Suggested Job"),
			posting("urn:li:fsd_jobPosting:555"),
			posting("urn:li:fsd_jobPosting:666"),
		},
	}

	rs := New(StandardDefaults()).Normalize(payload)

	assert.Empty(t, rs.Jobs, "unmatched and malformed cards are dropped, not errors")
}

func TestNormalize_MetadataFallbacks(t *testing.T) {
	defaults := StandardDefaults()
	rs := New(defaults).Normalize(&RawPayload{})

	assert.Equal(t, 0, rs.Metadata.TotalResults)
	assert.Equal(t, 1, rs.Metadata.CurrentPage)
	assert.Equal(t, 25, rs.Metadata.ResultsPerPage)
	assert.Equal(t, "angular", rs.Metadata.SearchQuery)
	assert.Equal(t, "United States", rs.Metadata.Location)
	assert.WithinDuration(t, time.Now(), rs.Metadata.GeneratedAt, 5*time.Second)

	//overridden defaults flow through
	custom := Defaults{SearchQuery: "golang", Location: "Berlin", PerPage: 10}
	rs = New(custom).Normalize(&RawPayload{})
	assert.Equal(t, "golang", rs.Metadata.SearchQuery)
	assert.Equal(t, "Berlin", rs.Metadata.Location)
	assert.Equal(t, 10, rs.Metadata.ResultsPerPage)
}

func TestExtractBenefits(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *Benefits
	}{
		{"count pattern", "5 benefits included", &Benefits{Count: 5}},
		{"keyword list", "401(k), Medical", &Benefits{List: []string{"401(k)", "Medical"}}},
		{"all keywords", "401(k), Medical, Vision", &Benefits{List: []string{"401(k)", "Medical", "Vision"}}},
		{"neither", "$90K/yr", nil},
		{"empty", "", nil},
		{"count wins over keywords", "3 benefits: Medical and more", &Benefits{Count: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractBenefits(tt.text))
		})
	}
}

func TestBenefits_MarshalJSON(t *testing.T) {
	count, err := json.Marshal(&Benefits{Count: 5})
	require.NoError(t, err)
	assert.Equal(t, "5", string(count))

	list, err := json.Marshal(&Benefits{List: []string{"401(k)", "Medical"}})
	require.NoError(t, err)
	assert.Equal(t, `["401(k)","Medical"]`, string(list))

	//absent field stays null
	data, err := json.Marshal(Job{ID: "1"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"benefits":null`)
}

func TestExtractJobCategory(t *testing.T) {
	assert.Equal(t, "Remote", extractJobCategory("United States (Remote)"))
	assert.Equal(t, "Hybrid", extractJobCategory("Austin, TX (Hybrid)"))
	assert.Equal(t, "On-site", extractJobCategory("New York, NY (On-site)"))
	assert.Equal(t, "On-site", extractJobCategory("Chicago, IL"))
	assert.Equal(t, "On-site", extractJobCategory(""))
}

func TestPartition(t *testing.T) {
	payload := samplePayload()
	postings, cards, companies := partition(payload.Included)

	assert.Len(t, postings, 3)
	assert.Len(t, cards, 3)
	require.Len(t, companies, 1)
	assert.Equal(t, "Company_4567", companies["urn:li:fsd_company:4567"].name)
	assert.Equal(t, "https://cdn.example/logo/", companies["urn:li:fsd_company:4567"].logoURL)
}
