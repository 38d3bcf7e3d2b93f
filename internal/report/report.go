// Package report renders a coverage report as plain text or CSV for the
// one-shot check mode.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"sfcoverage/internal/salesforce"
)

const separator = "================================================================================"

// WriteText writes the human-readable coverage report. tests may be nil when
// no test run was requested.
func WriteText(w io.Writer, info salesforce.OrgInfo, rep *salesforce.CoverageReport,
	analysis salesforce.GapAnalysis, tests *salesforce.TestRunSummary) error {
	now := time.Now().Format("2006-01-02 15:04:05")

	lines := []string{
		separator,
		"SALESFORCE CODE COVERAGE REPORT",
		"Generated: " + now,
		separator,
		"",
		fmt.Sprintf("Org: %s", info.Name),
		fmt.Sprintf("Org Url: %s", info.InstanceURL),
		fmt.Sprintf("Covered Lines: %d", rep.TotalCovered),
		fmt.Sprintf("Uncovered Lines: %d", rep.TotalUncovered),
		fmt.Sprintf("Total Coverage for Org: %.2f%%", rep.OverallPercent),
		"",
	}

	if rep.Warning != "" {
		lines = append(lines, "WARNING: "+rep.Warning, "")
	}

	if tests != nil {
		lines = append(lines,
			"TEST EXECUTION SUMMARY:",
			fmt.Sprintf("  Tests Run: %d", tests.TestsRan),
			fmt.Sprintf("  Tests Passed: %d", tests.Passing),
			fmt.Sprintf("  Tests Failed: %d", tests.Failing),
			fmt.Sprintf("  Test Run Coverage: %.2f%%", tests.TestRunCoverage),
			fmt.Sprintf("  Execution Time: %dms", tests.ExecutionTimeMS),
			"",
		)
	}

	lines = append(lines,
		"COVERAGE BREAKDOWN:",
		fmt.Sprintf("  Good Coverage (>=75%%): %d items", len(analysis.Good)),
		fmt.Sprintf("  Low Coverage (<75%%): %d items", len(analysis.Low)),
		fmt.Sprintf("  No Coverage (0%%): %d items", len(analysis.None)),
		fmt.Sprintf("  Completely Untested: %d items", len(analysis.Untested)),
		"",
		"DETAILED COVERAGE BY CLASS/TRIGGER:",
		"--------------------------------------------------------------------------------",
	)

	for _, cc := range salesforce.SortedClasses(rep) {
		lines = append(lines, fmt.Sprintf("%-40s %7.2f%% (%d/%d lines)",
			cc.Name, cc.Percent, cc.Covered, cc.Total))
	}

	if len(analysis.Untested) > 0 {
		lines = append(lines,
			"",
			"UNTESTED CLASSES/TRIGGERS:",
			"----------------------------------------",
		)
		for _, cc := range analysis.Untested {
			lines = append(lines, "  "+cc.Name)
		}
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes the per-class coverage as CSV, sorted by class name.
func WriteCSV(w io.Writer, rep *salesforce.CoverageReport) error {
	names := make([]string, 0, len(rep.Classes))
	for name := range rep.Classes {
		names = append(names, name)
	}
	sort.Strings(names)

	cw := csv.NewWriter(w)
	header := []string{"Name", "Coverage_Percentage", "Covered_Lines", "Total_Lines", "Uncovered_Lines"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, name := range names {
		cc := rep.Classes[name]
		row := []string{
			cc.Name,
			fmt.Sprintf("%.2f", cc.Percent),
			strconv.Itoa(cc.Covered),
			strconv.Itoa(cc.Total),
			strconv.Itoa(cc.Uncovered),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
