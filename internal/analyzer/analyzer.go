// Pure statistics over a normalized result set, rendered as the text
// report the CLI prints after a run.

package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"go-jobclaw-scraper/internal/normalize"
)

const topCompanyLimit = 5

type CompanyCount struct {
	Company string
	Count   int
}

type Report struct {
	TotalJobs   int
	SearchQuery string
	Location    string
	GeneratedAt string

	CategoryCounts map[string]int
	TopCompanies   []CompanyCount

	WithSalary int
	Verified   int
	EasyApply  int
}

// Analyze summarizes one result set.
func Analyze(rs *normalize.ResultSet) Report {
	report := Report{
		TotalJobs:      len(rs.Jobs),
		SearchQuery:    rs.Metadata.SearchQuery,
		Location:       rs.Metadata.Location,
		GeneratedAt:    rs.Metadata.GeneratedAt.Format("2006-01-02 15:04:05 MST"),
		CategoryCounts: make(map[string]int),
	}

	companies := make(map[string]int)
	for _, job := range rs.Jobs {
		report.CategoryCounts[job.JobCategory]++
		companies[job.Company]++

		if job.Salary != nil && strings.Contains(*job.Salary, "$") {
			report.WithSalary++
		}
		if job.IsVerified {
			report.Verified++
		}
		if job.IsEasyApply {
			report.EasyApply++
		}
	}

	report.TopCompanies = topCompanies(companies, topCompanyLimit)
	return report
}

// topCompanies ranks companies by listing count, ties broken by name so the
// output is deterministic.
func topCompanies(counts map[string]int, limit int) []CompanyCount {
	ranked := make([]CompanyCount, 0, len(counts))
	for company, count := range counts {
		ranked = append(ranked, CompanyCount{Company: company, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Company < ranked[j].Company
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func (r Report) String() string {
	var b strings.Builder

	b.WriteString("📊 Job Analysis Report\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Total Jobs: %d\n", r.TotalJobs)
	fmt.Fprintf(&b, "Search Query: %s\n", r.SearchQuery)
	fmt.Fprintf(&b, "Location: %s\n", r.Location)
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt)

	b.WriteString("Job Type Distribution:\n")
	for _, category := range sortedKeys(r.CategoryCounts) {
		fmt.Fprintf(&b, "  %s: %d jobs\n", category, r.CategoryCounts[category])
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Top %d Companies:\n", topCompanyLimit)
	for _, cc := range r.TopCompanies {
		fmt.Fprintf(&b, "  %s: %d jobs\n", cc.Company, cc.Count)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Jobs with Salary Info: %d/%d\n", r.WithSalary, r.TotalJobs)
	fmt.Fprintf(&b, "Verified Jobs: %d/%d\n", r.Verified, r.TotalJobs)
	fmt.Fprintf(&b, "Easy Apply Jobs: %d/%d\n", r.EasyApply, r.TotalJobs)

	return b.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
