package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestProcessEndpoint(t *testing.T) {
	controller := NewProcessingController()
	body := `{
		"data": {"columns": [
			{"name": "Phone", "values": ["13812345678", "15987654321"]},
			{"name": "Age", "values": ["25", null]}
		]}
	}`

	rec := postJSON(t, controller.Process, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Status)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["success"])
	assert.NotEmpty(t, data["run_id"])
}

func TestProcessEndpointMissingData(t *testing.T) {
	controller := NewProcessingController()
	rec := postJSON(t, controller.Process, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessEndpointInvalidConfig(t *testing.T) {
	controller := NewProcessingController()
	body := `{
		"data": {"columns": [{"name": "a", "values": [1]}]},
		"config": {"missing_handling": {"default_strategy": "bogus"}}
	}`

	rec := postJSON(t, controller.Process, body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, -1, resp.Status)
	assert.Equal(t, "配置无效", resp.Msg)
}

func TestValidateEndpoint(t *testing.T) {
	controller := NewProcessingController()
	body := `{"data": {"columns": [{"name": "a", "values": [1, 2]}]}}`

	rec := postJSON(t, controller.Validate, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["success"])
}

func TestDefaultConfigEndpoint(t *testing.T) {
	controller := NewProcessingController()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	controller.DefaultConfig(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	standardization := data["standardization"].(map[string]interface{})
	assert.Equal(t, "snake_case", standardization["naming_convention"])
}
