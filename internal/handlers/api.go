package handlers

import (
	"encoding/json"
	"net/http"

	"sfcoverage/internal/salesforce"

	"github.com/go-chi/chi/v5"
)

type orgsResponse struct {
	Success bool             `json:"success"`
	Orgs    []salesforce.Org `json:"orgs,omitempty"`
	Error   string           `json:"error,omitempty"`
}

type coverageResponse struct {
	Success        bool                                `json:"success"`
	Org            string                              `json:"org"`
	Error          string                              `json:"error,omitempty"`
	Partial        bool                                `json:"partial,omitempty"`
	Warning        string                              `json:"warning,omitempty"`
	OrgInfo        *salesforce.OrgInfo                 `json:"org_info,omitempty"`
	Classes        map[string]salesforce.ClassCoverage `json:"classes,omitempty"`
	Untested       []salesforce.ClassCoverage          `json:"untested,omitempty"`
	TotalCovered   int                                 `json:"total_covered"`
	TotalUncovered int                                 `json:"total_uncovered"`
	OverallPercent float64                             `json:"overall_percent"`
}

// APIOrgs returns the org list as JSON.
func (con *Controller) APIOrgs() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		orgs, err := con.orgService.ListOrgs(req.Context())
		if err != nil {
			writeJSON(res, http.StatusInternalServerError, orgsResponse{Error: err.Error()})
			return
		}

		writeJSON(res, http.StatusOK, orgsResponse{Success: true, Orgs: orgs})
	}
}

// APICoverage returns the coverage report for one org as JSON. Upstream CLI
// failures produce a well-formed success:false body with status 200; only a
// bad identifier is a client error.
func (con *Controller) APICoverage() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		org := chi.URLParam(req, "org")
		if err := salesforce.ValidateOrgID(org); err != nil {
			writeJSON(res, http.StatusBadRequest, coverageResponse{Org: org, Error: err.Error()})
			return
		}

		resp := coverageResponse{Org: org}

		info, err := con.orgService.GetOrgInfo(req.Context(), org)
		if err != nil {
			resp.Error = err.Error()
			writeJSON(res, http.StatusOK, resp)
			return
		}
		resp.OrgInfo = &info

		report := con.orgService.Coverage(req.Context(), org)
		resp.Success = report.Success
		resp.Error = report.Error
		resp.Partial = report.Partial
		resp.Warning = report.Warning
		resp.Classes = report.Classes
		resp.Untested = report.Untested
		resp.TotalCovered = report.TotalCovered
		resp.TotalUncovered = report.TotalUncovered
		resp.OverallPercent = report.OverallPercent

		writeJSON(res, http.StatusOK, resp)
	}
}

func writeJSON(res http.ResponseWriter, status int, body any) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	_ = json.NewEncoder(res).Encode(body)
}
