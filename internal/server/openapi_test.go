package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAPIDescribesRoutes(t *testing.T) {
	doc, err := OpenAPI(context.Background())
	require.NoError(t, err)

	for _, path := range []string{"/registry/generate", "/r/store", "/r/{filename}", "/health"} {
		assert.NotNil(t, doc.Paths.Find(path), path)
	}
	assert.NotNil(t, doc.Paths.Find("/r/store").Get)
	assert.NotNil(t, doc.Paths.Find("/r/store").Post)
}

func TestResponsesMatchOpenAPISchemas(t *testing.T) {
	doc, err := OpenAPI(context.Background())
	require.NoError(t, err)
	h := newHarness(t, nil)
	filePlan, depPlan := contactPlans(t)

	validate := func(schema string, body []byte) {
		t.Helper()
		var value any
		require.NoError(t, json.Unmarshal(body, &value))
		ref := doc.Components.Schemas[schema]
		require.NotNil(t, ref, schema)
		assert.NoError(t, ref.Value.VisitJSON(value), schema)
	}

	req := GenerateRequest{FormName: "Contact", FilePlan: &filePlan, DependencyPlan: &depPlan, UniqueID: "schema"}
	reqBody, err := json.Marshal(req)
	require.NoError(t, err)
	validate("GenerateRequest", reqBody)

	rec := h.do(t, http.MethodPost, "/registry/generate", req)
	require.Equal(t, http.StatusCreated, rec.Code)
	validate("GenerateResponse", rec.Body.Bytes())

	rec = h.do(t, http.MethodGet, "/r/contact-schema.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	validate("RegistryItem", rec.Body.Bytes())

	rec = h.do(t, http.MethodGet, "/r/store?id=unknown", nil)
	validate("Error", rec.Body.Bytes())

	rec = h.do(t, http.MethodGet, "/openapi.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var served map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &served))
	assert.Equal(t, "3.0.3", served["openapi"])
}
