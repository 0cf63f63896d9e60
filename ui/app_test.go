package ui

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppDashboard(t *testing.T) {
	a, err := NewApp(testService(nil), quietLogger)
	require.NoError(t, err)

	rec := do(t, a, http.MethodGet, "/?class=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	html := rec.Body.String()
	assert.Contains(t, html, "1 of 4 passengers")
	assert.Contains(t, html, "/charts/age-fare.png?class=2")
	assert.NotContains(t, html, "Download xlsx")

	rec = do(t, a, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestAppChartImage(t *testing.T) {
	a, err := NewApp(testService(nil), quietLogger)
	require.NoError(t, err)

	rec := do(t, a, http.MethodGet, "/charts/survived.png", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = do(t, a, http.MethodGet, "/charts/sex.png?survived=", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, a, http.MethodGet, "/charts/plot_type.png", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
