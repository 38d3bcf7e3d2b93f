package salesforce

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aggregateJSON = `{
  "status": 0,
  "result": {
    "done": true,
    "totalSize": 3,
    "records": [
      {"ApexClassOrTrigger": {"Name": "AccountService", "Id": "01p01"}, "NumLinesCovered": 90, "NumLinesUncovered": 10},
      {"ApexClassOrTrigger": {"Name": "LeadTrigger", "Id": "01q01"}, "NumLinesCovered": 1, "NumLinesUncovered": 2},
      {"ApexClassOrTrigger": {"Name": "LegacyHelper", "Id": "01p02"}, "NumLinesCovered": null, "NumLinesUncovered": null}
    ]
  }
}`

const classListingJSON = `{
  "status": 0,
  "result": {
    "done": true,
    "totalSize": 2,
    "records": [
      {"Id": "01p01", "Name": "AccountService"},
      {"Id": "01p02", "Name": "LegacyHelper"}
    ]
  }
}`

const inventoryJSON = `{
  "status": 0,
  "result": {
    "done": true,
    "totalSize": 4,
    "records": [
      {"Id": "01p01", "Name": "AccountService"},
      {"Id": "01q01", "Name": "LeadTrigger"},
      {"Id": "01p02", "Name": "LegacyHelper"},
      {"Id": "01p03", "Name": "UntouchedJob"}
    ]
  }
}`

func TestPercent(t *testing.T) {
	testCases := []struct {
		name     string
		covered  int
		total    int
		expected float64
	}{
		{name: "zero total", covered: 0, total: 0, expected: 0},
		{name: "zero covered", covered: 0, total: 50, expected: 0},
		{name: "full", covered: 50, total: 50, expected: 100},
		{name: "third rounds down", covered: 1, total: 3, expected: 33.33},
		{name: "two thirds rounds up", covered: 2, total: 3, expected: 66.67},
		{name: "exact", covered: 75, total: 100, expected: 75},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Percent(tc.covered, tc.total))
		})
	}
}

func TestCoverageToolingPath(t *testing.T) {
	service, runner := newTestService(t)

	runner.EXPECT().
		Run(gomock.Any(), "data", "query", "--query", queryCoverageProbe,
			"--target-org", "prod", "--use-tooling-api", "--json").
		Return([]byte(`{"result":{"totalSize":3,"records":[]}}`), nil, nil)
	runner.EXPECT().
		Run(gomock.Any(), "data", "query", "--query", queryCoverageAggregate,
			"--target-org", "prod", "--use-tooling-api", "--json").
		Return([]byte(aggregateJSON), nil, nil)
	runner.EXPECT().
		Run(gomock.Any(), "data", "query", "--query", queryClassListing,
			"--target-org", "prod", "--json").
		Return([]byte(inventoryJSON), nil, nil)

	report := service.Coverage(context.Background(), "prod")
	require.True(t, report.Success)
	require.Empty(t, report.Error)
	require.False(t, report.Partial)
	require.Len(t, report.Classes, 3)

	require.Len(t, report.Untested, 1, "inventory classes without an aggregate row are untested")
	assert.Equal(t, "UntouchedJob", report.Untested[0].Name)

	acc := report.Classes["AccountService"]
	assert.Equal(t, 90, acc.Covered)
	assert.Equal(t, 10, acc.Uncovered)
	assert.Equal(t, 100, acc.Total)
	assert.Equal(t, 90.0, acc.Percent)

	legacy := report.Classes["LegacyHelper"]
	assert.Equal(t, 0, legacy.Total, "null line counts must read as zero")
	assert.Equal(t, 0.0, legacy.Percent)

	assert.Equal(t, 91, report.TotalCovered)
	assert.Equal(t, 12, report.TotalUncovered)
	assert.Equal(t, Percent(91, 103), report.OverallPercent)
}

func TestCoverageFallbackPath(t *testing.T) {
	service, runner := newTestService(t)

	runner.EXPECT().
		Run(gomock.Any(), "data", "query", "--query", queryCoverageProbe,
			"--target-org", "prod", "--use-tooling-api", "--json").
		Return(nil, []byte("sObject type 'ApexCodeCoverageAggregate' is not supported"), errors.New("exit status 1"))
	runner.EXPECT().
		Run(gomock.Any(), "data", "query", "--query", queryClassListing,
			"--target-org", "prod", "--json").
		Return([]byte(classListingJSON), nil, nil)

	report := service.Coverage(context.Background(), "prod")
	require.True(t, report.Success)
	require.True(t, report.Partial)
	require.NotEmpty(t, report.Warning)
	require.Len(t, report.Classes, 2)

	for name, cc := range report.Classes {
		assert.Equal(t, 0, cc.Total, "fallback rows must carry zero coverage for %s", name)
		assert.Equal(t, 0.0, cc.Percent)
	}
	assert.Equal(t, 0.0, report.OverallPercent)
}

func TestCoverageUntestedDiffIsBestEffort(t *testing.T) {
	service, runner := newTestService(t)

	runner.EXPECT().
		Run(gomock.Any(), "data", "query", "--query", queryCoverageProbe,
			"--target-org", "prod", "--use-tooling-api", "--json").
		Return([]byte(`{"result":{"totalSize":3,"records":[]}}`), nil, nil)
	runner.EXPECT().
		Run(gomock.Any(), "data", "query", "--query", queryCoverageAggregate,
			"--target-org", "prod", "--use-tooling-api", "--json").
		Return([]byte(aggregateJSON), nil, nil)
	runner.EXPECT().
		Run(gomock.Any(), "data", "query", "--query", queryClassListing,
			"--target-org", "prod", "--json").
		Return(nil, []byte("expired access token"), errors.New("exit status 1"))

	report := service.Coverage(context.Background(), "prod")
	require.True(t, report.Success, "a failed inventory query must not break the coverage report")
	require.Empty(t, report.Untested)
	require.Len(t, report.Classes, 3)
}

func TestCoverageBothPathsFail(t *testing.T) {
	service, runner := newTestService(t)

	runner.EXPECT().
		Run(gomock.Any(), "data", "query", "--query", queryCoverageProbe,
			"--target-org", "prod", "--use-tooling-api", "--json").
		Return(nil, nil, errors.New("exit status 1"))
	runner.EXPECT().
		Run(gomock.Any(), "data", "query", "--query", queryClassListing,
			"--target-org", "prod", "--json").
		Return(nil, []byte("expired access token"), errors.New("exit status 1"))

	report := service.Coverage(context.Background(), "prod")
	require.False(t, report.Success)
	assert.Contains(t, report.Error, "class listing failed")
	assert.Empty(t, report.Classes)
}

func TestCoverageMalformedJSONDoesNotPanic(t *testing.T) {
	service, runner := newTestService(t)

	runner.EXPECT().
		Run(gomock.Any(), "data", "query", "--query", queryCoverageProbe,
			"--target-org", "prod", "--use-tooling-api", "--json").
		Return([]byte(`{"result":{}}`), nil, nil)
	runner.EXPECT().
		Run(gomock.Any(), "data", "query", "--query", queryCoverageAggregate,
			"--target-org", "prod", "--use-tooling-api", "--json").
		Return([]byte("<<< definitely not json >>>"), nil, nil)

	report := service.Coverage(context.Background(), "prod")
	require.False(t, report.Success)
	assert.Contains(t, report.Error, "parsing coverage records")
}

func TestCoverageRejectsBadIdentifier(t *testing.T) {
	service, _ := newTestService(t)

	report := service.Coverage(context.Background(), "prod&&true")
	require.False(t, report.Success)
	assert.Equal(t, ErrInvalidOrg.Error(), report.Error)
}

func TestAnalyze(t *testing.T) {
	report := &CoverageReport{
		Classes: map[string]ClassCoverage{
			"A": {Name: "A", Covered: 90, Uncovered: 10, Total: 100, Percent: 90},
			"B": {Name: "B", Covered: 50, Uncovered: 50, Total: 100, Percent: 50},
			"C": {Name: "C", Covered: 0, Uncovered: 40, Total: 40, Percent: 0},
			"D": {Name: "D", Covered: 75, Uncovered: 25, Total: 100, Percent: 75},
		},
		Untested: []ClassCoverage{
			{Name: "NeverRun", ID: "01p09"},
		},
	}

	analysis := Analyze(report)

	require.Len(t, analysis.Good, 2, "75%% sits in the good bucket")
	require.Len(t, analysis.Low, 1)
	require.Len(t, analysis.None, 1)

	require.Len(t, analysis.Untested, 1)
	assert.Equal(t, "NeverRun", analysis.Untested[0].Name)

	assert.Equal(t, "D", analysis.Good[0].Name, "buckets sorted ascending by percent")
	assert.Equal(t, "A", analysis.Good[1].Name)

	assert.Equal(t, 340, analysis.TotalLines)
	assert.Equal(t, 215, analysis.CoveredLines)
}

func TestSortedClasses(t *testing.T) {
	report := &CoverageReport{
		Classes: map[string]ClassCoverage{
			"Z": {Name: "Z", Percent: 10},
			"A": {Name: "A", Percent: 10},
			"M": {Name: "M", Percent: 5},
		},
	}

	classes := SortedClasses(report)
	require.Len(t, classes, 3)
	assert.Equal(t, "M", classes[0].Name)
	assert.Equal(t, "A", classes[1].Name, "equal percentages fall back to name order")
	assert.Equal(t, "Z", classes[2].Name)
}
