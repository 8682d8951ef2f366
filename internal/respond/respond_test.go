package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name"  validate:"required"`
	Value *float64 `json:"value" validate:"required"`
}

func TestDecode_OK(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","value":0}`))
	rr := httptest.NewRecorder()

	var s sample
	ok := Decode(rr, req, &s)

	require.True(t, ok)
	assert.Equal(t, "x", s.Name)
	require.NotNil(t, s.Value)
	assert.Equal(t, 0.0, *s.Value)
}

func TestDecode_BadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	rr := httptest.NewRecorder()

	var s sample
	assert.False(t, Decode(rr, req, &s))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, rr.Body.String())
}

func TestDecode_ValidationFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()

	var s sample
	assert.False(t, Decode(rr, req, &s))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var out struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	assert.Equal(t, "validation failed", out.Error)
	assert.Equal(t, map[string]string{"name": "required", "value": "required"}, out.Fields)
}

func TestDecode_TooLarge(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"`+strings.Repeat("a", 64)+`"}`))
	req.Body = http.MaxBytesReader(rr, req.Body, 16)

	var s sample
	assert.False(t, Decode(rr, req, &s))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestError(t *testing.T) {
	rr := httptest.NewRecorder()
	Error(rr, http.StatusUnauthorized, "Não autorizado")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Não autorizado"}`, rr.Body.String())
}
