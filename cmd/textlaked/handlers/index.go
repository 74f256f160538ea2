package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type ServiceInfo struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// IndexHandler serves service metadata and endpoint discovery.
func IndexHandler(version string) echo.HandlerFunc {
	info := ServiceInfo{
		Service: "textlake",
		Version: version,
		Endpoints: map[string]string{
			"GET /files":                       "List documents (id, filename)",
			"GET /files/:id":                   "View document content (JSON)",
			"POST /upload":                     "Upload a UTF-8 .txt file (form field 'file', optional 'filename')",
			"DELETE /files/:id":                "Delete document (and its analysis via cascade)",
			"GET /download/:id":                "Download raw .txt file for document",
			"GET /analyze/:id":                 "Run transient analysis and return results (not stored)",
			"POST /analyze-and-store/:id":      "Run analysis and store results",
			"GET /analysis/:id":                "Retrieve stored analysis (JSON)",
			"GET /download-analysis/:id":       "Download stored analysis as .json file",
			"DELETE /analysis/:id":             "Delete stored analysis for document",
			"GET /health":                      "Liveness, store reachability and bootstrap state",
			"GET /metrics":                     "Prometheus metrics",
		},
	}
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, info)
	}
}
