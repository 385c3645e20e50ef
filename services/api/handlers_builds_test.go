package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sitewrap/services/generator"
)

type stubStorage struct {
	failUploads bool
	listCalls   int
	uploads     int
}

func (s *stubStorage) ListBuckets(context.Context) ([]string, error) {
	s.listCalls++
	return []string{"app-builds"}, nil
}

func (s *stubStorage) CreateBucket(context.Context, string, bool) error { return nil }

func (s *stubStorage) Upload(context.Context, string, string, []byte, string) error {
	s.uploads++
	if s.failUploads {
		return errors.New("storage offline")
	}
	return nil
}

func (s *stubStorage) PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://storage.test/%s/%s", bucket, key)
}

func testAPI(t *testing.T, store *stubStorage) *API {
	t.Helper()

	pipeline, err := generator.NewPipeline(generator.PipelineConfig{
		Storage: store,
		Bucket:  "app-builds",
		Now:     func() time.Time { return time.UnixMilli(1700000000123) },
		Sleep:   func(time.Duration) {},
	})
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}

	a, err := New(&Store{}, pipeline, Config{RequestTimeout: 10 * time.Second}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

func doRequest(t *testing.T, a *API, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	routes, err := a.Routes()
	if err != nil {
		t.Fatalf("Routes() error = %v", err)
	}

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)
	return rec
}

func TestHandleCreateBuildSuccess(t *testing.T) {
	store := &stubStorage{}
	a := testAPI(t, store)

	body := `{
		"websiteUrl": "https://example.com",
		"appName": "Demo App",
		"iconData": "data:image/png;base64,AAAA",
		"enableNotifications": true,
		"enableMusicControls": false
	}`
	rec := doRequest(t, a, http.MethodPost, "/v1/builds", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success     bool   `json:"success"`
		BuildID     string `json:"buildId"`
		AppName     string `json:"appName"`
		PackageName string `json:"packageName"`
		DownloadURL string `json:"downloadUrl"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatal("success = false")
	}
	if resp.AppName != "Demo App" {
		t.Fatalf("appName = %q", resp.AppName)
	}
	if !strings.HasSuffix(resp.PackageName, "demoapp") {
		t.Fatalf("packageName = %q, want suffix demoapp", resp.PackageName)
	}
	if resp.DownloadURL == "" {
		t.Fatal("downloadUrl is empty")
	}
	if store.uploads != 1 {
		t.Fatalf("uploads = %d, want 1", store.uploads)
	}
}

func TestHandleCreateBuildClientErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "malformed json",
			body: `{"websiteUrl": `,
		},
		{
			name: "missing app name",
			body: `{"websiteUrl": "https://example.com", "iconData": "data:image/png;base64,AAAA"}`,
		},
		{
			name: "invalid icon",
			body: `{"websiteUrl": "https://example.com", "appName": "Demo", "iconData": "https://example.com/icon.png"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubStorage{}
			a := testAPI(t, store)

			rec := doRequest(t, a, http.MethodPost, "/v1/builds", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}

			var resp struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Success {
				t.Fatal("success = true on client error")
			}
			if resp.Error == "" {
				t.Fatal("error message is empty")
			}
			if store.uploads != 0 {
				t.Fatalf("uploads = %d, want 0", store.uploads)
			}
		})
	}
}

func TestHandleCreateBuildUploadFailure(t *testing.T) {
	store := &stubStorage{failUploads: true}
	a := testAPI(t, store)

	body := `{"websiteUrl": "https://example.com", "appName": "Demo", "iconData": "data:image/png;base64,AAAA"}`
	rec := doRequest(t, a, http.MethodPost, "/v1/builds", body)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500: %s", rec.Code, rec.Body.String())
	}
	if store.uploads != 3 {
		t.Fatalf("uploads = %d, want 3 (retries exhausted)", store.uploads)
	}
}

func TestHandleListBuildsWithoutDatabase(t *testing.T) {
	a := testAPI(t, &stubStorage{})

	rec := doRequest(t, a, http.MethodGet, "/v1/builds", "")
	if rec.Code != http.StatusFailedDependency {
		t.Fatalf("status = %d, want 424", rec.Code)
	}
}
