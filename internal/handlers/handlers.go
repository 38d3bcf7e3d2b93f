// Package handlers contains the HTTP controller: HTML pages, JSON API and
// request middleware.
package handlers

import (
	"html/template"
	"net/http"
	"strings"

	"sfcoverage/internal/config"
	"sfcoverage/internal/salesforce"
	"sfcoverage/internal/session"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Controller - holds everything the HTTP handlers need. Requests are
// independent of each other; the controller carries no per-request state.
type Controller struct {
	conf           *config.Config
	orgService     salesforce.OrgService
	sessionService session.SessionService
	tmpl           *template.Template
	sugar          *zap.SugaredLogger
}

// NewController creates and returns a new Controller instance.
func NewController(conf *config.Config, orgService salesforce.OrgService,
	sessionService session.SessionService, tmpl *template.Template,
	sugar *zap.SugaredLogger) *Controller {
	return &Controller{
		conf:           conf,
		orgService:     orgService,
		sessionService: sessionService,
		tmpl:           tmpl,
		sugar:          sugar,
	}
}

type orgsPageData struct {
	Orgs    []salesforce.Org
	LastOrg string
}

type coveragePageData struct {
	Org      string
	Info     salesforce.OrgInfo
	Report   *salesforce.CoverageReport
	Classes  []salesforce.ClassCoverage
	Analysis salesforce.GapAnalysis
}

// HomePage renders the org list.
func (con *Controller) HomePage() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		orgs, err := con.orgService.ListOrgs(req.Context())
		if err != nil {
			con.renderError(res, http.StatusInternalServerError, err.Error())
			return
		}

		lastOrg, _ := con.sessionService.GetLastOrg(req)

		con.renderPage(res, http.StatusOK, "orgs", orgsPageData{
			Orgs:    orgs,
			LastOrg: lastOrg,
		})
	}
}

// CoveragePage renders the per-org coverage table and remembers the org in
// the session cookie.
func (con *Controller) CoveragePage() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		org := chi.URLParam(req, "org")
		if err := salesforce.ValidateOrgID(org); err != nil {
			con.renderError(res, http.StatusBadRequest, err.Error())
			return
		}

		info, err := con.orgService.GetOrgInfo(req.Context(), org)
		if err != nil {
			con.renderError(res, http.StatusInternalServerError, err.Error())
			return
		}

		report := con.orgService.Coverage(req.Context(), org)
		if !report.Success {
			con.renderError(res, http.StatusInternalServerError, report.Error)
			return
		}

		if err := con.sessionService.SetLastOrg(res, org); err != nil {
			con.sugar.Errorf("setting last-org cookie: %v", err)
		}

		con.renderPage(res, http.StatusOK, "coverage", coveragePageData{
			Org:      org,
			Info:     info,
			Report:   report,
			Classes:  salesforce.SortedClasses(report),
			Analysis: salesforce.Analyze(report),
		})
	}
}

// NotFound serves the 404 page: JSON under /api/, HTML everywhere else.
func (con *Controller) NotFound() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		if strings.HasPrefix(req.URL.Path, "/api/") {
			writeJSON(res, http.StatusNotFound, map[string]any{
				"success": false,
				"error":   "not found",
			})
			return
		}

		con.renderPage(res, http.StatusNotFound, "notfound", struct{ Path string }{Path: req.URL.Path})
	}
}

// renderPage executes a template into the response. Template failures are
// logged; headers are already written at that point, so nothing else is sent.
func (con *Controller) renderPage(res http.ResponseWriter, status int, name string, data any) {
	res.Header().Set("Content-Type", "text/html; charset=utf-8")
	res.WriteHeader(status)
	if err := con.tmpl.ExecuteTemplate(res, name, data); err != nil {
		con.sugar.Errorf("rendering %s: %v", name, err)
	}
}

func (con *Controller) renderError(res http.ResponseWriter, status int, message string) {
	con.sugar.Errorf("request failed: %s", message)
	con.renderPage(res, status, "error", struct{ Message string }{Message: message})
}
