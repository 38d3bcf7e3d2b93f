package salesforce

import "encoding/json"

// The CLI wraps every JSON response in {"status": N, "result": {...}} with
// result.records for query output. The envelope is a versioned third-party
// contract; unknown fields are ignored.

type envelope struct {
	Status   int             `json:"status"`
	Result   json.RawMessage `json:"result"`
	Warnings []string        `json:"warnings"`
}

type recordsResult struct {
	Records   json.RawMessage `json:"records"`
	TotalSize int             `json:"totalSize"`
	Done      bool            `json:"done"`
}

type orgListResult struct {
	NonScratchOrgs []orgListEntry `json:"nonScratchOrgs"`
	ScratchOrgs    []orgListEntry `json:"scratchOrgs"`
}

type orgListEntry struct {
	Alias             string `json:"alias"`
	Username          string `json:"username"`
	OrgID             string `json:"orgId"`
	IsDefaultUsername bool   `json:"isDefaultUsername"`
}

type orgDisplayResult struct {
	Alias       string `json:"alias"`
	Username    string `json:"username"`
	InstanceURL string `json:"instanceUrl"`
	ID          string `json:"id"`
}

// aggregateRecord - one row of the ApexCodeCoverageAggregate query. Line
// counts are pointers because the API reports null for never-run classes.
type aggregateRecord struct {
	ApexClassOrTrigger struct {
		Name string `json:"Name"`
		ID   string `json:"Id"`
	} `json:"ApexClassOrTrigger"`
	NumLinesCovered   *int `json:"NumLinesCovered"`
	NumLinesUncovered *int `json:"NumLinesUncovered"`
}

// classRecord - one row of the plain ApexClass listing (fallback path).
type classRecord struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

type testRunResult struct {
	Summary struct {
		TestsRan int `json:"testsRan"`
		Passing  int `json:"passing"`
		Failing  int `json:"failing"`
		// TestRunCoverage arrives as a string like "85", sometimes
		// with a trailing percent sign.
		TestRunCoverage       string `json:"testRunCoverage"`
		TestExecutionTimeInMS int    `json:"testExecutionTimeInMs"`
	} `json:"summary"`
}

// decodeEnvelope unwraps the CLI envelope and decodes result into out.
func decodeEnvelope(data []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	return json.Unmarshal(env.Result, out)
}

// decodeRecords unwraps the envelope plus the records list of a query
// response and decodes the rows into out.
func decodeRecords(data []byte, out any) error {
	var res recordsResult
	if err := decodeEnvelope(data, &res); err != nil {
		return err
	}
	if res.Records == nil {
		return nil
	}
	return json.Unmarshal(res.Records, out)
}
