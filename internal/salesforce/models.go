// Package salesforce queries org and Apex code-coverage data through the
// Salesforce CLI and computes coverage summaries from it.
package salesforce

// OrgKind - classifies an org as a regular (production/sandbox) or scratch org.
type OrgKind string

const (
	// KindOrg - production or sandbox org.
	KindOrg OrgKind = "org"
	// KindScratch - scratch org.
	KindScratch OrgKind = "scratch"
)

// Org - one entry of the CLI's org list. Fields mirror "sf org list --json".
type Org struct {
	// Alias: local alias assigned at login; may be empty.
	Alias string `json:"alias"`
	// Username: login username of the authenticated user.
	Username string `json:"username"`
	// OrgID: Salesforce org id.
	OrgID string `json:"org_id"`
	// Kind: regular vs scratch org.
	Kind OrgKind `json:"kind"`
	// IsDefault: whether this is the CLI's default org.
	IsDefault bool `json:"is_default"`
}

// Identifier returns the value used as --target-org: the alias when set,
// otherwise the username. Empty means the entry is unusable.
func (o Org) Identifier() string {
	if o.Alias != "" {
		return o.Alias
	}
	return o.Username
}

// OrgInfo - read-only snapshot of one org, from "sf org display --json".
// Fetched per request; never cached or persisted.
type OrgInfo struct {
	// Name: alias falling back to username.
	Name string `json:"name"`
	// InstanceURL: https URL of the org instance.
	InstanceURL string `json:"instance_url"`
	// Username: login username.
	Username string `json:"username"`
	// OrgID: Salesforce org id.
	OrgID string `json:"org_id"`
}

// ClassCoverage - line coverage of one Apex class or trigger.
type ClassCoverage struct {
	// Name: class or trigger name.
	Name string `json:"name"`
	// ID: Salesforce id of the class or trigger; may be empty on the
	// fallback path.
	ID string `json:"id,omitempty"`
	// Covered: number of covered lines.
	Covered int `json:"covered_lines"`
	// Uncovered: number of uncovered lines.
	Uncovered int `json:"uncovered_lines"`
	// Total: Covered + Uncovered.
	Total int `json:"total_lines"`
	// Percent: Covered/Total*100 rounded to two decimals, 0 when Total is 0.
	Percent float64 `json:"coverage_percentage"`
}

// CoverageReport - per-class coverage plus running totals for one org.
// Recomputed on every request; lives only for the scope of one call.
type CoverageReport struct {
	// Success: false when the CLI call or JSON parsing failed.
	Success bool `json:"success"`
	// Error: human-readable failure description when Success is false.
	Error string `json:"error,omitempty"`
	// Partial: true when only the class-listing fallback succeeded and
	// coverage numbers are zero placeholders.
	Partial bool `json:"partial,omitempty"`
	// Warning: non-fatal message, e.g. why the fallback path was taken.
	Warning string `json:"warning,omitempty"`
	// Classes: class-or-trigger name to its coverage record.
	Classes map[string]ClassCoverage `json:"classes"`
	// Untested: classes present in the org but absent from the coverage
	// aggregate, i.e. never touched by any test run. Only filled on the
	// rich query path; the fallback path has no coverage rows to diff
	// against.
	Untested []ClassCoverage `json:"untested,omitempty"`
	// TotalCovered: covered lines summed over all classes.
	TotalCovered int `json:"total_covered"`
	// TotalUncovered: uncovered lines summed over all classes.
	TotalUncovered int `json:"total_uncovered"`
	// OverallPercent: org-wide percentage, same rounding rule as per class.
	OverallPercent float64 `json:"overall_percent"`
}

// GapAnalysis - coverage buckets across all classes of a report.
type GapAnalysis struct {
	// Good: classes at or above 75% coverage.
	Good []ClassCoverage `json:"good_coverage_items"`
	// Low: classes below 75% but above 0%.
	Low []ClassCoverage `json:"low_coverage_items"`
	// None: classes with 0% coverage.
	None []ClassCoverage `json:"no_coverage_items"`
	// Untested: classes with no coverage row at all, sorted by name.
	Untested []ClassCoverage `json:"untested_items,omitempty"`
	// TotalLines: line count over all classes.
	TotalLines int `json:"total_lines"`
	// CoveredLines: covered line count over all classes.
	CoveredLines int `json:"covered_lines"`
}

// TestRunSummary - outcome of "sf apex run test", used by the one-shot
// report mode only.
type TestRunSummary struct {
	TestsRan        int     `json:"tests_ran"`
	Passing         int     `json:"passing"`
	Failing         int     `json:"failing"`
	TestRunCoverage float64 `json:"test_run_coverage"`
	ExecutionTimeMS int     `json:"execution_time_ms"`
}
