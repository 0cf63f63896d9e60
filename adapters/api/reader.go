package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"paxboard/adapters/excel"
	"paxboard/domain/dataset"
	"paxboard/internal"
	"paxboard/internal/errors"
)

// HTTPReader fetches passenger data from http(s) URLs. Responses may be CSV,
// JSON (an array of flat objects) or an xlsx workbook.
type HTTPReader struct {
	config     SourceConfig
	httpClient *http.Client
	logger     *internal.Logger
}

// NewHTTPReader creates a reader for remote sources
func NewHTTPReader(config SourceConfig, logger *internal.Logger) *HTTPReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &HTTPReader{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger.WithComponent("HTTPReader"),
	}
}

// Supports reports whether source is an http or https URL.
func (r *HTTPReader) Supports(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Read fetches url and parses the body according to its content type.
func (r *HTTPReader) Read(ctx context.Context, url string) (*dataset.RawTable, error) {
	start := time.Now()

	req, err := r.buildRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, errors.ExternalServiceError(req.URL.Host, fmt.Errorf("HTTP request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.config.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > r.config.MaxBytes {
		return nil, fmt.Errorf("response exceeds %d bytes", r.config.MaxBytes)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.ExternalServiceError(req.URL.Host,
			fmt.Errorf("source returned status %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	var raw *dataset.RawTable
	switch format := detectFormat(resp.Header.Get("Content-Type"), url, body); format {
	case "json":
		raw, err = r.parseJSON(body)
	case "xlsx":
		raw, err = excel.ReadWorkbook(bytes.NewReader(body))
	default:
		raw, err = excel.ReadCSV(bytes.NewReader(body))
	}
	if err != nil {
		return nil, err
	}

	r.logger.Debug("fetched %s in %s (%d columns, %d rows)", url, time.Since(start), len(raw.Headers), len(raw.Rows))
	return raw, nil
}

// buildRequest creates a GET request with configured headers and authentication
func (r *HTTPReader) buildRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "text/csv, application/json;q=0.9, */*;q=0.5")
	for k, v := range r.config.Headers {
		req.Header.Set(k, v)
	}
	if r.config.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+r.config.AuthToken)
	}
	return req, nil
}

// parseJSON extracts the record array at the configured data path. Headers are
// the union of object keys in first-seen order; null values become blank cells.
func (r *HTTPReader) parseJSON(body []byte) (*dataset.RawTable, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("response is not valid JSON")
	}

	data := gjson.ParseBytes(body)
	if r.config.DataPath != "" {
		data = data.Get(r.config.DataPath)
		if !data.Exists() {
			return nil, fmt.Errorf("data path '%s' not found in response", r.config.DataPath)
		}
	}

	var objects []gjson.Result
	switch {
	case data.IsArray():
		objects = data.Array()
	case data.IsObject():
		objects = []gjson.Result{data}
	default:
		return nil, fmt.Errorf("JSON data is not an array or object")
	}

	var headers []string
	index := make(map[string]int)
	for _, obj := range objects {
		if !obj.IsObject() {
			return nil, fmt.Errorf("JSON records must be objects, got %s", obj.Type)
		}
		obj.ForEach(func(key, _ gjson.Result) bool {
			if _, ok := index[key.String()]; !ok {
				index[key.String()] = len(headers)
				headers = append(headers, key.String())
			}
			return true
		})
	}

	rows := make([][]string, len(objects))
	for i, obj := range objects {
		row := make([]string, len(headers))
		obj.ForEach(func(key, value gjson.Result) bool {
			if value.Type != gjson.Null {
				row[index[key.String()]] = value.String()
			}
			return true
		})
		rows[i] = row
	}

	return dataset.NewRawTable(headers, rows), nil
}

func detectFormat(contentType, url string, body []byte) string {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch {
	case strings.Contains(mediaType, "json"):
		return "json"
	case strings.Contains(mediaType, "spreadsheetml"):
		return "xlsx"
	}

	urlPath := strings.SplitN(url, "?", 2)[0]
	switch strings.ToLower(path.Ext(urlPath)) {
	case ".json":
		return "json"
	case ".xlsx":
		return "xlsx"
	case ".csv":
		return "csv"
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return "json"
	}
	// xlsx workbooks are zip archives
	if bytes.HasPrefix(body, []byte("PK\x03\x04")) {
		return "xlsx"
	}
	return "csv"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
