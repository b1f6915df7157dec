package imagegen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageResponse(data string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"parts": []map[string]any{
					{"text": "here is your render"},
					{"inlineData": map[string]any{"mimeType": "image/png", "data": data}},
				},
			},
		}},
	}
}

func TestGenerateFrameConcept(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		prompt := req.Contents[0].Parts[0].Text
		require.Contains(t, prompt, "dragon wings")

		n := calls.Add(1)
		if n == 1 {
			assert.Contains(t, prompt, "avatar frame")
			json.NewEncoder(w).Encode(imageResponse("TUFJTg=="))
			return
		}
		assert.Contains(t, prompt, "exploded view")
		json.NewEncoder(w).Encode(imageResponse("RVhQTE9ERUQ="))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-model", "secret")
	concept, err := client.GenerateFrameConcept(context.Background(), "dragon wings")
	require.NoError(t, err)

	assert.Equal(t, "dragon wings", concept.ConceptName)
	assert.Contains(t, concept.Description, "dragon wings")
	assert.Equal(t, "data:image/png;base64,TUFJTg==", concept.MainImageURL)
	assert.Equal(t, "data:image/png;base64,RVhQTE9ERUQ=", concept.ExplodedImageURL)
	assert.Equal(t, int32(2), calls.Load(), "one render per view")
}

func TestGenerateFrameConceptFailures(t *testing.T) {
	t.Parallel()

	t.Run("backend error status", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": 429, "message": "quota exceeded"},
			})
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-model", "secret")
		_, err := client.GenerateFrameConcept(context.Background(), "ruby crown")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("no image in response", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"candidates": []map[string]any{{
					"content": map[string]any{
						"parts": []map[string]any{{"text": "cannot help with that"}},
					},
				}},
			})
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-model", "secret")
		_, err := client.GenerateFrameConcept(context.Background(), "ruby crown")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no image data")
	})

	t.Run("second render fails whole call", func(t *testing.T) {
		t.Parallel()
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				json.NewEncoder(w).Encode(imageResponse("TUFJTg=="))
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"code":500,"message":"boom"}}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-model", "secret")
		_, err := client.GenerateFrameConcept(context.Background(), "ruby crown")
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "exploded view render failed"))
	})
}
