package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	httptestutil "github.com/textlake/textlake/internal/testutils/http"

	"github.com/textlake/textlake/cmd/textlaked/handlers"
)

func TestIndexHandler(t *testing.T) {
	e := echo.New()
	c, respRec := httptestutil.Get(e, "/")

	if err := handlers.IndexHandler("1.2.3")(c); err != nil {
		t.Fatal(err)
	}

	if respRec.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d", respRec.Code, http.StatusOK)
	}

	actual := handlers.ServiceInfo{}
	if err := json.Unmarshal(respRec.Body.Bytes(), &actual); err != nil {
		t.Fatal(err)
	}
	if actual.Service != "textlake" || actual.Version != "1.2.3" {
		t.Errorf("payload: got %+v", actual)
	}
	if _, ok := actual.Endpoints["GET /files"]; !ok {
		t.Error("endpoint discovery should mention GET /files")
	}
}
