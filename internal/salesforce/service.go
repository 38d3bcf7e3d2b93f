package salesforce

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"sfcoverage/internal/sfcli"

	"go.uber.org/zap"
)

// Fixed query strings. The rich aggregate query needs the Tooling API; the
// plain class listing works over the regular query interface.
const (
	queryCoverageProbe = "SELECT COUNT() FROM ApexCodeCoverageAggregate"

	queryCoverageAggregate = "SELECT ApexClassOrTrigger.Name, ApexClassOrTrigger.Id, " +
		"NumLinesCovered, NumLinesUncovered " +
		"FROM ApexCodeCoverageAggregate " +
		"WHERE ApexClassOrTrigger.NamespacePrefix = null " +
		"ORDER BY ApexClassOrTrigger.Name"

	queryClassListing = "SELECT Id, Name FROM ApexClass " +
		"WHERE NamespacePrefix = null ORDER BY Name"
)

// ErrInvalidOrg - the org identifier is empty or contains characters that
// must not cross the subprocess boundary.
var ErrInvalidOrg = errors.New("invalid org identifier")

var orgIDPattern = regexp.MustCompile(`^[A-Za-z0-9._@-]+$`)

// ValidateOrgID checks an alias-or-username before it is passed to the CLI
// as --target-org.
func ValidateOrgID(org string) error {
	if org == "" || !orgIDPattern.MatchString(org) {
		return ErrInvalidOrg
	}
	return nil
}

// OrgService - read-only reporting operations over the Salesforce CLI.
type OrgService interface {
	// ListOrgs returns all authenticated orgs that have a usable identifier.
	ListOrgs(ctx context.Context) ([]Org, error)
	// GetOrgInfo fetches a per-request snapshot of one org.
	GetOrgInfo(ctx context.Context, org string) (OrgInfo, error)
	// Coverage queries per-class coverage for one org. Failures are
	// reported inside the returned report, never as a panic or a fatal
	// error: a broken CLI call yields Success:false plus a message.
	Coverage(ctx context.Context, org string) *CoverageReport
	// RunLocalTests executes all local tests in the org and returns the
	// run summary. Used by the one-shot report mode.
	RunLocalTests(ctx context.Context, org string) (TestRunSummary, error)
}

// OrgServ implements OrgService on top of an sfcli.Runner.
type OrgServ struct {
	runner sfcli.Runner
	sugar  *zap.SugaredLogger
}

// NewOrgService creates and returns a new instance of the org service.
func NewOrgService(runner sfcli.Runner, sugar *zap.SugaredLogger) *OrgServ {
	return &OrgServ{runner: runner, sugar: sugar}
}

// ListOrgs implements OrgService.
func (s *OrgServ) ListOrgs(ctx context.Context) ([]Org, error) {
	stdout, _, err := s.runner.Run(ctx, "org", "list", "--json")
	if err != nil {
		return nil, fmt.Errorf("listing orgs: %w", err)
	}

	var res orgListResult
	if err := decodeEnvelope(stdout, &res); err != nil {
		return nil, fmt.Errorf("parsing org list: %w", err)
	}

	orgs := make([]Org, 0, len(res.NonScratchOrgs)+len(res.ScratchOrgs))
	appendEntries := func(entries []orgListEntry, kind OrgKind) {
		for _, e := range entries {
			o := Org{
				Alias:     e.Alias,
				Username:  e.Username,
				OrgID:     e.OrgID,
				Kind:      kind,
				IsDefault: e.IsDefaultUsername,
			}
			if o.Identifier() == "" {
				continue
			}
			orgs = append(orgs, o)
		}
	}
	appendEntries(res.NonScratchOrgs, KindOrg)
	appendEntries(res.ScratchOrgs, KindScratch)

	s.sugar.Debugf("org list: %d usable orgs", len(orgs))
	return orgs, nil
}

// GetOrgInfo implements OrgService.
func (s *OrgServ) GetOrgInfo(ctx context.Context, org string) (OrgInfo, error) {
	if err := ValidateOrgID(org); err != nil {
		return OrgInfo{}, err
	}

	stdout, _, err := s.runner.Run(ctx, "org", "display", "--target-org", org, "--json")
	if err != nil {
		return OrgInfo{}, fmt.Errorf("displaying org %q: %w", org, err)
	}

	var res orgDisplayResult
	if err := decodeEnvelope(stdout, &res); err != nil {
		return OrgInfo{}, fmt.Errorf("parsing org info: %w", err)
	}

	name := res.Alias
	if name == "" {
		name = res.Username
	}

	return OrgInfo{
		Name:        name,
		InstanceURL: res.InstanceURL,
		Username:    res.Username,
		OrgID:       res.ID,
	}, nil
}

// RunLocalTests implements OrgService.
func (s *OrgServ) RunLocalTests(ctx context.Context, org string) (TestRunSummary, error) {
	if err := ValidateOrgID(org); err != nil {
		return TestRunSummary{}, err
	}

	stdout, _, err := s.runner.Run(ctx,
		"apex", "run", "test", "--test-level", "RunLocalTests",
		"--target-org", org, "--wait", "30", "--json")
	if err != nil {
		return TestRunSummary{}, fmt.Errorf("running tests in %q: %w", org, err)
	}

	var res testRunResult
	if err := decodeEnvelope(stdout, &res); err != nil {
		return TestRunSummary{}, fmt.Errorf("parsing test run result: %w", err)
	}

	coverage, _ := strconv.ParseFloat(
		strings.TrimSuffix(strings.TrimSpace(res.Summary.TestRunCoverage), "%"), 64)

	return TestRunSummary{
		TestsRan:        res.Summary.TestsRan,
		Passing:         res.Summary.Passing,
		Failing:         res.Summary.Failing,
		TestRunCoverage: coverage,
		ExecutionTimeMS: res.Summary.TestExecutionTimeInMS,
	}, nil
}
