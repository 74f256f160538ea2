package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	apidocuments "github.com/textlake/textlake/pkg/api/types/documents"
	apierr "github.com/textlake/textlake/pkg/api/types/errors"
	kdbdocument "github.com/textlake/textlake/pkg/domain/document/db"
	kerr "github.com/textlake/textlake/pkg/domain/errors"
)

// paramID reads an int path parameter; anything else is a client error.
func paramID(c echo.Context, paramKey string) (int, *echo.HTTPError) {
	raw := c.Param(paramKey)
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierr.BadRequest(
			fmt.Sprintf(`document id should be an integer: "%s"`, raw), err,
		)
	}
	return id, nil
}

func ListDocumentsHandler(dbDocument kdbdocument.DocumentInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		summaries, err := dbDocument.List(ctx)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		found := make([]apidocuments.Summary, 0, len(summaries))
		for _, s := range summaries {
			found = append(found, apidocuments.ComposeSummary(s))
		}

		return c.JSON(http.StatusOK, found)
	}
}

func GetDocumentHandler(dbDocument kdbdocument.DocumentInterface, paramKey string) echo.HandlerFunc {
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

		return c.JSON(http.StatusOK, apidocuments.ComposeDetail(doc))
	}
}

// UploadHandler accepts a multipart upload of one UTF-8 text file.
//
// The form field "file" carries the content; the optional field
// "filename" overrides the stored name and must end with ".txt".
// Collisions are resolved with numbered variants; the response tells
// the caller the name that actually stuck.
func UploadHandler(dbDocument kdbdocument.DocumentInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return apierr.BadRequest(`form field "file" is required`, err)
		}

		filename := c.FormValue("filename")
		if filename != "" {
			if !strings.HasSuffix(strings.ToLower(filename), ".txt") {
				return apierr.BadRequest("provided filename must end with .txt", nil)
			}
		} else {
			filename = fileHeader.Filename
			if filename == "" {
				filename = "upload.txt"
			}
			if !strings.HasSuffix(strings.ToLower(filename), ".txt") {
				filename += ".txt"
			}
		}

		file, err := fileHeader.Open()
		if err != nil {
			return apierr.InternalServerError(err)
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		if !utf8.Valid(content) {
			return apierr.BadRequest("uploaded file must be UTF-8 encoded .txt", nil)
		}

		doc, err := dbDocument.Create(ctx, filename, string(content))
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusCreated, apidocuments.Uploaded{
			ID:       doc.ID,
			Filename: doc.Filename,
		})
	}
}

func DeleteDocumentHandler(dbDocument kdbdocument.DocumentInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		id, herr := paramID(c, paramKey)
		if herr != nil {
			return herr
		}

		filename, err := dbDocument.Delete(ctx, id)
		if err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apidocuments.Deleted{
			Message: fmt.Sprintf(
				"Document %d (%s) deleted (analysis removed via cascade if present).",
				id, filename,
			),
		})
	}
}

func DownloadDocumentHandler(dbDocument kdbdocument.DocumentInterface, paramKey string) echo.HandlerFunc {
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

		c.Response().Header().Set(
			"Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, doc.Filename),
		)
		return c.Blob(
			http.StatusOK, "text/plain; charset=utf-8", []byte(doc.Content),
		)
	}
}
