package main

import (
	"github.com/labstack/echo/v4"
	"github.com/textlake/textlake/cmd/textlaked/handlers"
	"github.com/textlake/textlake/pkg/domain/analysis/analyzer"
	dbi "github.com/textlake/textlake/pkg/domain/textlake/db"
	"github.com/textlake/textlake/pkg/metrics"
	"github.com/textlake/textlake/pkg/utils/echoutil"
)

// BuildServer assembles the echo server with every route wired up.
// It does not start listening; main owns the lifecycle.
func BuildServer(
	db dbi.TextLakeDatabase,
	anl analyzer.Analyzer,
	m *metrics.Metrics,
	loglevel string,
	version string,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	echoutil.SetLevel(e, loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)
	e.Use(m.Middleware())

	e.GET("/", handlers.IndexHandler(version))
	e.GET("/health", handlers.HealthHandler(db.Bootstrap(), db.Ping))
	e.GET("/metrics", m.Handler())

	{
		id := "id"
		e.GET("/files", handlers.ListDocumentsHandler(db.Document()))
		e.GET("/files/:id", handlers.GetDocumentHandler(db.Document(), id))
		e.POST("/upload", handlers.UploadHandler(db.Document()))
		e.DELETE("/files/:id", handlers.DeleteDocumentHandler(db.Document(), id))
		e.GET("/download/:id", handlers.DownloadDocumentHandler(db.Document(), id))
	}

	{
		id := "id"
		e.GET("/analyze/:id", handlers.AnalyzeHandler(db.Document(), anl, m, id))
		e.POST("/analyze-and-store/:id", handlers.AnalyzeAndStoreHandler(db.Document(), db.Analysis(), anl, m, id))
		e.GET("/analysis/:id", handlers.GetAnalysisHandler(db.Analysis(), id))
		e.GET("/download-analysis/:id", handlers.DownloadAnalysisHandler(db.Analysis(), id))
		e.DELETE("/analysis/:id", handlers.DeleteAnalysisHandler(db.Analysis(), id))
	}

	return e
}
