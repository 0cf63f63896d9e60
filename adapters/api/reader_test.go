package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paxboard/internal"
	"paxboard/internal/errors"
)

func newTestReader(dataPath string) *HTTPReader {
	config := DefaultSourceConfig()
	config.Timeout = 5 * time.Second
	config.DataPath = dataPath
	config.AuthToken = "secret"
	return NewHTTPReader(config, internal.NewLogger(internal.LogLevelError))
}

func TestHTTPReaderSupports(t *testing.T) {
	r := newTestReader("")
	assert.True(t, r.Supports("https://example.com/titanic.csv"))
	assert.True(t, r.Supports("HTTP://example.com/data"))
	assert.False(t, r.Supports("titanic.csv"))
}

func TestHTTPReaderReadsCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("Survived,Age\n1,38\n0,\n"))
	}))
	defer srv.Close()

	raw, err := newTestReader("").Read(context.Background(), srv.URL+"/titanic")
	require.NoError(t, err)
	assert.Equal(t, []string{"Survived", "Age"}, raw.Headers)
	assert.Equal(t, [][]string{{"1", "38"}, {"0", ""}}, raw.Rows)
}

func TestHTTPReaderReadsJSONAtDataPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"data":{"passengers":[
			{"Survived":1,"Age":38,"Sex":"female"},
			{"Survived":0,"Age":null,"Fare":7.25}
		]}}`))
	}))
	defer srv.Close()

	raw, err := newTestReader("data.passengers").Read(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{"Survived", "Age", "Sex", "Fare"}, raw.Headers)
	assert.Equal(t, [][]string{{"1", "38", "female", ""}, {"0", "", "", "7.25"}}, raw.Rows)
}

func TestHTTPReaderMissingDataPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	_, err := newTestReader("data").Read(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "data path")
}

func TestHTTPReaderStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestReader("").Read(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "status 404")
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(err))
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, "json", detectFormat("", "http://x/data", []byte(" [{}]")))
	assert.Equal(t, "xlsx", detectFormat("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "http://x/d", nil))
	assert.Equal(t, "csv", detectFormat("text/plain", "http://x/titanic.csv?raw=1", []byte("{")))
	assert.Equal(t, "csv", detectFormat("", "http://x/d", []byte("a,b\n")))
}
