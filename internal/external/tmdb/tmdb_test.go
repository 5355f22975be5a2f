package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benwatts/whatson/internal/errors"
)

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Config{APIKey: "test-key"})

	if client.language != "en-US" {
		t.Errorf("expected default language 'en-US', got '%s'", client.language)
	}
	if client.baseURL != defaultBaseURL {
		t.Errorf("expected default base URL '%s', got '%s'", defaultBaseURL, client.baseURL)
	}
	if client.httpClient.Timeout != defaultTimeout {
		t.Errorf("expected default timeout %v, got %v", defaultTimeout, client.httpClient.Timeout)
	}
}

func TestSearchShow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/tv" {
			t.Errorf("expected path '/search/tv', got '%s'", r.URL.Path)
		}

		query := r.URL.Query()
		if query.Get("query") != "The Pitt" {
			t.Errorf("expected query 'The Pitt', got '%s'", query.Get("query"))
		}
		if query.Get("api_key") != "test-key" {
			t.Errorf("expected api_key 'test-key', got '%s'", query.Get("api_key"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"page": 1,
			"results": [{
				"id": 250307,
				"name": "The Pitt",
				"first_air_date": "2025-01-09",
				"poster_path": "/abc123.jpg"
			}, {
				"id": 999,
				"name": "The Pitt Stop",
				"poster_path": null
			}],
			"total_results": 2
		}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	result, err := client.SearchShow(context.Background(), "The Pitt")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result == nil {
		t.Fatal("expected a result")
	}
	if result.CatalogID != 250307 {
		t.Errorf("expected catalog id 250307, got %d", result.CatalogID)
	}
	want := imageBaseURL + "/abc123.jpg"
	if result.PosterURL != want {
		t.Errorf("expected poster URL '%s', got '%s'", want, result.PosterURL)
	}
}

func TestSearchShowNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page": 1, "results": [], "total_results": 0}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	result, err := client.SearchShow(context.Background(), "Nonexistent")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result for empty search, got %+v", result)
	}
}

func TestSearchShowMissingPoster(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page": 1, "results": [{"id": 7, "name": "Radio Show", "poster_path": null}], "total_results": 1}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	result, err := client.SearchShow(context.Background(), "Radio Show")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.CatalogID != 7 {
		t.Errorf("expected catalog id 7, got %d", result.CatalogID)
	}
	if result.PosterURL != "" {
		t.Errorf("expected empty poster URL, got '%s'", result.PosterURL)
	}
}

func TestSearchShowClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status_message": "Invalid API key"}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad-key", BaseURL: server.URL, Timeout: time.Second})

	_, err := client.SearchShow(context.Background(), "Anything")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.IsProviderError(err) {
		t.Errorf("expected a provider error, got %v", err)
	}
}
