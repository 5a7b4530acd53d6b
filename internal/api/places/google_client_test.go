package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GoogleClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGoogleClient(config.PlacesConfig{
		APIKey:      "test-key",
		BaseURL:     srv.URL,
		CallTimeout: time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGoogleClient_SearchPlace(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/places:searchText", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
		assert.Equal(t, searchFieldMask, r.Header.Get("X-Goog-FieldMask"))

		var body searchTextRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Hagia Sophia Istanbul", body.TextQuery)
		assert.Equal(t, 1, body.MaxResultCount)

		_, _ = io.WriteString(w, `{"places":[{"id":"ChIJ123","displayName":{"text":"Hagia Sophia"},
			"formattedAddress":"Sultan Ahmet, Fatih","rating":4.8,"googleMapsUri":"https://maps.google.com/?cid=1"}]}`)
	})

	match, err := client.SearchPlace(context.Background(), "Hagia Sophia", "Istanbul")
	require.NoError(t, err)
	assert.Equal(t, "ChIJ123", match.PlaceID)
	assert.Equal(t, "Hagia Sophia", match.Name)
	assert.Equal(t, "Sultan Ahmet, Fatih", match.Address)
	require.NotNil(t, match.Rating)
	assert.InDelta(t, 4.8, *match.Rating, 0.001)
	assert.Equal(t, "https://maps.google.com/?cid=1", match.MapsURI)
}

func TestGoogleClient_SearchPlaceNoResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := client.SearchPlace(context.Background(), "Nowhere Cafe", "Atlantis")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestGoogleClient_ErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"status":"PERMISSION_DENIED"}}`, http.StatusForbidden)
	})

	_, err := client.SearchPlace(context.Background(), "Hagia Sophia", "Istanbul")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoMatch)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "PERMISSION_DENIED")
}

func TestGoogleClient_GetPhotos(t *testing.T) {
	var mediaCalls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch {
		case r.URL.Path == "/places/ChIJ123":
			assert.Equal(t, "photos", r.Header.Get("X-Goog-FieldMask"))
			var photos []string
			for i := 1; i <= 6; i++ {
				photos = append(photos, fmt.Sprintf(`{"name":"places/ChIJ123/photos/p%d"}`, i))
			}
			_, _ = io.WriteString(w, `{"photos":[`+strings.Join(photos, ",")+`]}`)
		case strings.HasSuffix(r.URL.Path, "/media"):
			mediaCalls.Add(1)
			assert.Equal(t, "true", r.URL.Query().Get("skipHttpRedirect"))
			assert.Empty(t, r.URL.Query().Get("key"), "API key travels in a header")
			ref := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/places/ChIJ123/photos/"), "/media")
			_, _ = io.WriteString(w, `{"photoUri":"https://lh3.googleusercontent.com/`+ref+`"}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	photos, err := client.GetPhotos(context.Background(), "ChIJ123", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://lh3.googleusercontent.com/p1",
		"https://lh3.googleusercontent.com/p2",
		"https://lh3.googleusercontent.com/p3",
		"https://lh3.googleusercontent.com/p4",
	}, photos)
	assert.EqualValues(t, 4, mediaCalls.Load())
}

func TestGoogleClient_GetPhotosUnknownPlace(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetPhotos(context.Background(), "missing", 3)
	assert.ErrorIs(t, err, ErrNoMatch)

	photos, err := client.GetPhotos(context.Background(), "", 3)
	assert.NoError(t, err)
	assert.Nil(t, photos)
}

func TestGoogleClient_RespectsContextDeadline(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server watches the connection and cancels
		// r.Context() when the client gives up.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.SearchPlace(ctx, "Galata Tower", "Istanbul")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 900*time.Millisecond)
}
