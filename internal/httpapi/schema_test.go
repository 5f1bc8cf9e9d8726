package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formgate/gateway/internal/config"
	"github.com/formgate/gateway/internal/dbrpc"
	"github.com/formgate/gateway/internal/testsupport"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandler_GetFormSchema_NotFound(t *testing.T) {
	q := testsupport.New()
	h := &Handler{Querier: q, Cfg: &config.Config{}}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/f/missing/schema", nil)
	c.Params = gin.Params{{Key: "formId", Value: "missing"}}

	h.GetFormSchema(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_GetFormSchema_ReturnsPublishedSchema(t *testing.T) {
	q := testsupport.New()
	q.GetPublishedFormByIDFn = func(_ context.Context, formID string) (*dbrpc.Form, error) {
		return &dbrpc.Form{
			ID:              formID,
			Title:           "Contact Us",
			PublishedSchema: json.RawMessage(`{"fields":[{"name":"email","type":"email"}]}`),
			SuccessMessage:  "Thanks!",
			RequireAuth:     false,
		}, nil
	}
	h := &Handler{Querier: q, Cfg: &config.Config{}}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/f/form-1/schema", nil)
	c.Params = gin.Params{{Key: "formId", Value: "form-1"}}

	h.GetFormSchema(c)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Form formSchemaView `json:"form"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "form-1", body.Form.ID)
	assert.Equal(t, "Contact Us", body.Form.Title)
	assert.Equal(t, "Thanks!", body.Form.SuccessMessage)
}

func TestHandler_GetFormSchema_QuerierErrorIsInternal(t *testing.T) {
	q := testsupport.New()
	q.GetPublishedFormByIDFn = func(_ context.Context, formID string) (*dbrpc.Form, error) {
		return nil, assert.AnError
	}
	h := &Handler{Querier: q, Cfg: &config.Config{}}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/f/form-1/schema", nil)
	c.Params = gin.Params{{Key: "formId", Value: "form-1"}}

	h.GetFormSchema(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
