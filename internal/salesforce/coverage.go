package salesforce

import (
	"context"
	"math"
	"sort"
)

// lowCoverageThreshold splits "low" from "good" coverage in the gap
// analysis, matching the platform's 75% deployment requirement.
const lowCoverageThreshold = 75.0

// Percent computes covered/total*100 rounded to two decimals. A total of
// zero yields exactly 0.
func Percent(covered, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(covered)/float64(total)*100*100) / 100
}

// Coverage implements OrgService. The Tooling API is probed with a trivial
// count query first; when available the rich aggregate query runs, otherwise
// the plain class listing produces zero-valued placeholder rows. Every
// failure ends up as an error string inside the report.
func (s *OrgServ) Coverage(ctx context.Context, org string) *CoverageReport {
	report := &CoverageReport{Classes: map[string]ClassCoverage{}}

	if err := ValidateOrgID(org); err != nil {
		report.Error = err.Error()
		return report
	}

	if s.toolingAvailable(ctx, org) {
		s.coverageFromAggregate(ctx, org, report)
		if report.Success {
			s.findUntested(ctx, org, report)
		}
	} else {
		report.Partial = true
		report.Warning = "tooling API unavailable; returning class listing without coverage numbers"
		s.coverageFromClassListing(ctx, org, report)
	}

	if !report.Success {
		return report
	}

	total := report.TotalCovered + report.TotalUncovered
	report.OverallPercent = Percent(report.TotalCovered, total)
	return report
}

// toolingAvailable probes the elevated query interface with a count query.
func (s *OrgServ) toolingAvailable(ctx context.Context, org string) bool {
	_, _, err := s.runner.Run(ctx,
		"data", "query", "--query", queryCoverageProbe,
		"--target-org", org, "--use-tooling-api", "--json")
	if err != nil {
		s.sugar.Debugf("tooling probe failed for %q: %v", org, err)
		return false
	}
	return true
}

func (s *OrgServ) coverageFromAggregate(ctx context.Context, org string, report *CoverageReport) {
	stdout, _, err := s.runner.Run(ctx,
		"data", "query", "--query", queryCoverageAggregate,
		"--target-org", org, "--use-tooling-api", "--json")
	if err != nil {
		report.Error = "coverage query failed: " + err.Error()
		return
	}

	var records []aggregateRecord
	if err := decodeRecords(stdout, &records); err != nil {
		report.Error = "parsing coverage records: " + err.Error()
		return
	}

	for _, rec := range records {
		name := rec.ApexClassOrTrigger.Name
		if name == "" {
			continue
		}
		covered := intOrZero(rec.NumLinesCovered)
		uncovered := intOrZero(rec.NumLinesUncovered)
		total := covered + uncovered

		report.Classes[name] = ClassCoverage{
			Name:      name,
			ID:        rec.ApexClassOrTrigger.ID,
			Covered:   covered,
			Uncovered: uncovered,
			Total:     total,
			Percent:   Percent(covered, total),
		}
		report.TotalCovered += covered
		report.TotalUncovered += uncovered
	}

	report.Success = true
	s.sugar.Debugf("coverage for %q: %d classes", org, len(report.Classes))
}

// coverageFromClassListing fills the report with zero-valued rows so the
// caller still gets the full class inventory.
func (s *OrgServ) coverageFromClassListing(ctx context.Context, org string, report *CoverageReport) {
	stdout, _, err := s.runner.Run(ctx,
		"data", "query", "--query", queryClassListing,
		"--target-org", org, "--json")
	if err != nil {
		report.Error = "class listing failed: " + err.Error()
		return
	}

	var records []classRecord
	if err := decodeRecords(stdout, &records); err != nil {
		report.Error = "parsing class listing: " + err.Error()
		return
	}

	for _, rec := range records {
		if rec.Name == "" {
			continue
		}
		report.Classes[rec.Name] = ClassCoverage{Name: rec.Name, ID: rec.ID}
	}

	report.Success = true
}

// findUntested diffs the full class inventory against the coverage rows;
// classes the platform has never run have no aggregate row at all. The diff
// is best effort: a failed listing leaves the coverage report intact.
func (s *OrgServ) findUntested(ctx context.Context, org string, report *CoverageReport) {
	stdout, _, err := s.runner.Run(ctx,
		"data", "query", "--query", queryClassListing,
		"--target-org", org, "--json")
	if err != nil {
		s.sugar.Debugf("class inventory for %q unavailable: %v", org, err)
		return
	}

	var records []classRecord
	if err := decodeRecords(stdout, &records); err != nil {
		s.sugar.Debugf("parsing class inventory for %q: %v", org, err)
		return
	}

	for _, rec := range records {
		if rec.Name == "" {
			continue
		}
		if _, covered := report.Classes[rec.Name]; !covered {
			report.Untested = append(report.Untested, ClassCoverage{Name: rec.Name, ID: rec.ID})
		}
	}

	sort.Slice(report.Untested, func(i, j int) bool {
		return report.Untested[i].Name < report.Untested[j].Name
	})
}

// Analyze buckets the classes of a report by coverage. Buckets are sorted
// ascending by percentage, ties by name.
func Analyze(report *CoverageReport) GapAnalysis {
	var analysis GapAnalysis
	analysis.Untested = append(analysis.Untested, report.Untested...)

	for _, cc := range report.Classes {
		analysis.TotalLines += cc.Total
		analysis.CoveredLines += cc.Covered

		switch {
		case cc.Percent == 0:
			analysis.None = append(analysis.None, cc)
		case cc.Percent < lowCoverageThreshold:
			analysis.Low = append(analysis.Low, cc)
		default:
			analysis.Good = append(analysis.Good, cc)
		}
	}

	for _, bucket := range [][]ClassCoverage{analysis.Good, analysis.Low, analysis.None} {
		sort.Slice(bucket, func(i, j int) bool {
			if bucket[i].Percent != bucket[j].Percent {
				return bucket[i].Percent < bucket[j].Percent
			}
			return bucket[i].Name < bucket[j].Name
		})
	}

	return analysis
}

// SortedClasses returns the classes of a report ordered ascending by
// percentage, ties by name. Used by the HTML page and the text report.
func SortedClasses(report *CoverageReport) []ClassCoverage {
	classes := make([]ClassCoverage, 0, len(report.Classes))
	for _, cc := range report.Classes {
		classes = append(classes, cc)
	}
	sort.Slice(classes, func(i, j int) bool {
		if classes[i].Percent != classes[j].Percent {
			return classes[i].Percent < classes[j].Percent
		}
		return classes[i].Name < classes[j].Name
	})
	return classes
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
