package customsearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "test-cx", q.Get("cx"))
		assert.Equal(t, `site:rowan.edu "athletics staff directory" filetype:pdf`, q.Get("q"))
		assert.Equal(t, "10", q.Get("num"))
		assert.Equal(t, "1", q.Get("start"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(searchResponse{
			Items: []Result{
				{
					Title:   "Athletics Staff Directory",
					Link:    "https://rowan.edu/athletics/staff.pdf",
					Snippet: "Coaching staff and contacts",
				},
			},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", "test-cx", WithBaseURL(srv.URL))
	results, err := client.Search(context.Background(), `site:rowan.edu "athletics staff directory" filetype:pdf`, 1)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Athletics Staff Directory", results[0].Title)
	assert.Equal(t, "https://rowan.edu/athletics/staff.pdf", results[0].Link)
}

func TestSearch_PaginationOffset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "21", r.URL.Query().Get("start"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(searchResponse{})
	}))
	defer srv.Close()

	client := NewClient("k", "cx", WithBaseURL(srv.URL))
	results, err := client.Search(context.Background(), "q", 21)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_EmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// No "items" key at all once results are exhausted.
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"kind": "customsearch#search"}`))
	}))
	defer srv.Close()

	client := NewClient("k", "cx", WithBaseURL(srv.URL))
	results, err := client.Search(context.Background(), "q", 1)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "rate limit exceeded"}`))
	}))
	defer srv.Close()

	client := NewClient("k", "cx", WithBaseURL(srv.URL))
	results, err := client.Search(context.Background(), "q", 1)

	assert.Error(t, err)
	assert.Nil(t, results)
	assert.Contains(t, err.Error(), "429")
}

func TestSearch_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("k", "cx", WithBaseURL(srv.URL))
	_, err := client.Search(ctx, "q", 1)

	assert.Error(t, err)
}
