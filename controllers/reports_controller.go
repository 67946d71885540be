package controllers

import (
	"net/http"

	"github.com/blogem/access-log-viewer/charts"
	"github.com/blogem/access-log-viewer/models"
	"github.com/blogem/access-log-viewer/services"
)

const (
	colorActivity = "4361ee"
	colorFailed   = "ef476f"
	colorIP       = "3a506b"
	colorAnomaly  = "ff9e00"
)

// ReportsController renders the chart pages
type ReportsController struct {
	services *services.Services
	pages    pageBuilder
}

// NewReportsController creates a new reports controller
func NewReportsController(services *services.Services, pages pageBuilder) *ReportsController {
	return &ReportsController{
		services: services,
		pages:    pages,
	}
}

// Plot handles GET /plot
func (c *ReportsController) Plot(w http.ResponseWriter, r *http.Request) {
	activity, err := c.services.Reports.GetUserActivity(r.Context())
	if err != nil {
		loadError(w, r, err)
		return
	}

	templateData := struct {
		basePage
		Data struct{ Chart charts.Image }
	}{
		basePage: c.pages.page(r, "User Activity Dashboard", "plot"),
	}
	templateData.Data.Chart = charts.UserActivityChart("User Activity Distribution", activity)

	renderTemplate(w, "plot", "plot.html", templateData)
}

// Dashboard handles GET /dashboard
func (c *ReportsController) Dashboard(w http.ResponseWriter, r *http.Request) {
	data, err := c.services.Reports.GetDashboard(r.Context())
	if err != nil {
		loadError(w, r, err)
		return
	}

	templateData := struct {
		basePage
		Data struct {
			Total        int
			Activity     charts.Image
			Distribution charts.Image
			Timeline     charts.Image
		}
	}{
		basePage: c.pages.page(r, "Log Analytics Dashboard", "dashboard"),
	}
	templateData.Data.Total = data.Total
	templateData.Data.Activity = charts.UserActivityChart("User Activity by Action", data.Activity)
	templateData.Data.Distribution = charts.ActionPie("Action Distribution", data.Distribution)
	templateData.Data.Timeline = charts.TimeSeriesChart("Activity Over Time (hourly)", "Actions", colorActivity, data.Hourly, models.Hourly)

	renderTemplate(w, "dashboard", "dashboard.html", templateData)
}

// SecurityDashboard handles GET /security-dashboard
func (c *ReportsController) SecurityDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := c.services.Reports.GetSecuritySummary(r.Context())
	if err != nil {
		loadError(w, r, err)
		return
	}

	templateData := struct {
		basePage
		Data struct {
			TotalFailed int
			Users       charts.Image
			Timeline    charts.Image
			IPs         charts.Image
		}
	}{
		basePage: c.pages.page(r, "Security Dashboard", "security"),
	}
	templateData.Data.TotalFailed = summary.TotalFailed
	templateData.Data.Users = charts.BarChart("Top 10 Users with Failed Logins", colorFailed, summary.TopUsers)
	templateData.Data.Timeline = charts.TimeSeriesChart("Failed Logins Over Time (hourly)", "Failed logins", colorFailed, summary.Hourly, models.Hourly)
	templateData.Data.IPs = charts.BarChart("Top 10 Source IPs of Failed Logins", colorIP, summary.TopIPs)

	renderTemplate(w, "security", "security.html", templateData)
}

// Anomalies handles GET /anomalies
func (c *ReportsController) Anomalies(w http.ResponseWriter, r *http.Request) {
	report, err := c.services.Reports.GetAnomalies(r.Context())
	if err != nil {
		loadError(w, r, err)
		return
	}

	topUsers := report.SuspiciousUsers
	if len(topUsers) > services.TopN {
		topUsers = topUsers[:services.TopN]
	}

	templateData := struct {
		basePage
		Data struct {
			Report    *models.AnomalyReport
			Threshold int
			Timeline  charts.Image
			TopUsers  charts.Image
		}
	}{
		basePage: c.pages.page(r, "Anomaly Detection", "anomalies"),
	}
	templateData.Data.Report = report
	templateData.Data.Threshold = services.FailedLoginThreshold
	templateData.Data.Timeline = charts.TimeSeriesChart("Failed Login Attempts Over Time", "Failed attempts", colorAnomaly, report.Daily, models.Daily)
	templateData.Data.TopUsers = charts.BarChart("Top Users with Failed Login Attempts", colorAnomaly, topUsers)

	renderTemplate(w, "anomalies", "anomalies.html", templateData)
}
