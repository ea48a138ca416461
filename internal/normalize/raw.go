package normalize

// Raw shapes of the Voyager normalized+json payload. Only the fields the
// normalizer reads are declared; everything else in the payload is noise.

const (
	typeJobPosting     = "com.linkedin.voyager.dash.jobs.JobPosting"
	typeJobPostingCard = "com.linkedin.voyager.dash.jobs.JobPostingCard"
	typeCompany        = "com.linkedin.voyager.dash.organization.Company"

	//cards outside the search scope (recommendations etc.) are ignored
	searchScopeMarker = "JOBS_SEARCH"

	footerListedDate = "LISTED_DATE"
	footerPromoted   = "PROMOTED"
	footerEasyApply  = "EASY_APPLY_TEXT"
)

type RawPayload struct {
	Data     RawData     `json:"data"`
	Included []RawEntity `json:"included"`
}

type RawData struct {
	Paging   RawPaging   `json:"paging"`
	Metadata RawMetadata `json:"metadata"`
}

type RawPaging struct {
	Total int `json:"total"`
	Start int `json:"start"`
	Count int `json:"count"`
}

type RawMetadata struct {
	Keywords string  `json:"keywords"`
	Title    RawText `json:"title"`
}

// RawEntity is one record of the heterogeneous included collection,
// discriminated by the $type field. Postings, cards and companies all
// decode into this shape; fields irrelevant to a given kind stay zero.
type RawEntity struct {
	Type      string `json:"$type"`
	EntityURN string `json:"entityUrn"`

	//card fields
	Title                     *RawText        `json:"title"`
	JobPostingURN             string          `json:"jobPostingUrn"`
	PrimaryDescription        *RawText        `json:"primaryDescription"`
	SecondaryDescription      *RawText        `json:"secondaryDescription"`
	TertiaryDescription       *RawText        `json:"tertiaryDescription"`
	FooterItems               []RawFooterItem `json:"footerItems"`
	JobPostingVerificationURN string          `json:"jobPostingVerificationUrn"`
	TrackingID                string          `json:"trackingId"`
	Logo                      *RawLogo        `json:"logo"`
	RelevanceInsight          *RawInsight     `json:"relevanceInsight"`

	//posting fields
	RepostedJob bool `json:"repostedJob"`
}

type RawText struct {
	Text string `json:"text"`
}

type RawInsight struct {
	Text RawText `json:"text"`
}

type RawFooterItem struct {
	Type   string `json:"type"`
	TimeAt int64  `json:"timeAt"`
}

type RawLogo struct {
	ActionTarget string        `json:"actionTarget"`
	Attributes   []RawLogoAttr `json:"attributes"`
	VectorImage  *RawVector    `json:"vectorImage"`
}

type RawLogoAttr struct {
	DetailDataUnion RawLogoDetail `json:"detailDataUnion"`
}

type RawLogoDetail struct {
	CompanyLogo string `json:"companyLogo"`
}

type RawVector struct {
	RootURL string `json:"rootUrl"`
}
