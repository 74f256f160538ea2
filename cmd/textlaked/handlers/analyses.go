package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	apianalyses "github.com/textlake/textlake/pkg/api/types/analyses"
	apierr "github.com/textlake/textlake/pkg/api/types/errors"
	"github.com/textlake/textlake/pkg/domain/analysis/analyzer"
	kdbanalysis "github.com/textlake/textlake/pkg/domain/analysis/db"
	kdbdocument "github.com/textlake/textlake/pkg/domain/document/db"
	kerr "github.com/textlake/textlake/pkg/domain/errors"
	"github.com/textlake/textlake/pkg/metrics"
)

// AnalyzeHandler runs an analysis and returns it without persisting.
func AnalyzeHandler(
	dbDocument kdbdocument.DocumentInterface,
	anl analyzer.Analyzer,
	m *metrics.Metrics,
	paramKey string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		id, herr := paramID(c, paramKey)
		if herr != nil {
			return herr
		}

		doc, err := dbDocument.Get(ctx, id)
		if err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		analysis, err := anl.Analyze(ctx, doc.Content)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		m.AnalysesComputedTotal.Inc()

		return c.JSON(http.StatusOK, apianalyses.ComposeDetail(analysis))
	}
}

// AnalyzeAndStoreHandler runs an analysis and upserts the result, so a
// repeated call replaces the stored analysis.
func AnalyzeAndStoreHandler(
	dbDocument kdbdocument.DocumentInterface,
	dbAnalysis kdbanalysis.AnalysisInterface,
	anl analyzer.Analyzer,
	m *metrics.Metrics,
	paramKey string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		id, herr := paramID(c, paramKey)
		if herr != nil {
			return herr
		}

		doc, err := dbDocument.Get(ctx, id)
		if err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		analysis, err := anl.Analyze(ctx, doc.Content)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		m.AnalysesComputedTotal.Inc()

		analysis.DocumentID = doc.ID
		if err := dbAnalysis.Store(ctx, analysis); err != nil {
			return apierr.InternalServerError(err)
		}
		m.AnalysesStoredTotal.Inc()

		return c.JSON(http.StatusOK, apianalyses.Stored{
			Message: fmt.Sprintf("Analysis for document %d stored successfully.", id),
		})
	}
}

func GetAnalysisHandler(dbAnalysis kdbanalysis.AnalysisInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		id, herr := paramID(c, paramKey)
		if herr != nil {
			return herr
		}

		analysis, err := dbAnalysis.Get(ctx, id)
		if err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apianalyses.ComposeDetail(analysis))
	}
}

func DownloadAnalysisHandler(dbAnalysis kdbanalysis.AnalysisInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		id, herr := paramID(c, paramKey)
		if herr != nil {
			return herr
		}

		analysis, err := dbAnalysis.Get(ctx, id)
		if err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		body, err := json.MarshalIndent(apianalyses.ComposeExport(analysis), "", "  ")
		if err != nil {
			return apierr.InternalServerError(err)
		}

		c.Response().Header().Set(
			"Content-Disposition",
			fmt.Sprintf(`attachment; filename="analysis_%d.json"`, id),
		)
		return c.Blob(http.StatusOK, "application/json; charset=utf-8", body)
	}
}

func DeleteAnalysisHandler(dbAnalysis kdbanalysis.AnalysisInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		id, herr := paramID(c, paramKey)
		if herr != nil {
			return herr
		}

		if err := dbAnalysis.Delete(ctx, id); err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apianalyses.Deleted{
			Message: fmt.Sprintf("Analysis for document %d deleted successfully.", id),
		})
	}
}
