package main

import (
	"fmt"
	"os"

	"sfcoverage/internal/report"
	"sfcoverage/internal/salesforce"

	"github.com/spf13/cobra"
)

var (
	flagOrg      string
	flagOutput   string
	flagCSV      string
	flagRunTests bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Produce a one-shot coverage report for an org",
	Long: `check queries coverage once and writes a text report to stdout or a
file, optionally exporting the per-class numbers as CSV. With --run-tests
all local tests are executed first so the coverage numbers are fresh.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&flagOrg, "org", "", "org alias or username (required)")
	checkCmd.Flags().StringVar(&flagOutput, "output", "", "write the report to a file instead of stdout")
	checkCmd.Flags().StringVar(&flagCSV, "csv", "", "export per-class coverage to a CSV file")
	checkCmd.Flags().BoolVar(&flagRunTests, "run-tests", false, "run all local tests before querying coverage")
	_ = checkCmd.MarkFlagRequired("org")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	if err := salesforce.ValidateOrgID(flagOrg); err != nil {
		return err
	}

	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sugar, err := newLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = sugar.Sync() }()

	cli, err := newCLI(cmd, c, sugar)
	if err != nil {
		return err
	}

	orgService := salesforce.NewOrgService(cli, sugar)
	ctx := cmd.Context()

	info, err := orgService.GetOrgInfo(ctx, flagOrg)
	if err != nil {
		return fmt.Errorf("cannot connect to org %q, check authentication: %w", flagOrg, err)
	}
	sugar.Infof("connected to org: %s", info.Username)

	var tests *salesforce.TestRunSummary
	if flagRunTests {
		sugar.Infof("running all local tests, this can take a while")
		summary, err := orgService.RunLocalTests(ctx, flagOrg)
		if err != nil {
			// existing coverage data is still worth reporting
			sugar.Errorf("test execution failed, continuing with existing coverage: %v", err)
		} else {
			tests = &summary
		}
	}

	rep := orgService.Coverage(ctx, flagOrg)
	if !rep.Success {
		return fmt.Errorf("coverage query failed: %s", rep.Error)
	}

	out := os.Stdout
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	if err := report.WriteText(out, info, rep, salesforce.Analyze(rep), tests); err != nil {
		return err
	}
	if flagOutput != "" {
		sugar.Infof("report saved to %s", flagOutput)
	}

	if flagCSV != "" {
		f, err := os.Create(flagCSV)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if err := report.WriteCSV(f, rep); err != nil {
			return err
		}
		sugar.Infof("coverage data exported to %s", flagCSV)
	}

	return nil
}
