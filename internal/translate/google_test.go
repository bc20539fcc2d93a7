package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleBackendTranslate(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = map[string]string{"sl": q.Get("sl"), "tl": q.Get("tl"), "q": q.Get("q"), "client": q.Get("client")}
		_, _ = w.Write([]byte(`[[["Привет. ","Hello. ",null,null,10],["Мир","World",null,null,10]],null,"en",null,null,null,1]`))
	}))
	defer srv.Close()

	b := NewGoogleBackend(srv.URL, 5*time.Second)
	res, err := b.Translate(context.Background(), "Hello. World", "", "ru")

	require.NoError(t, err)
	assert.Equal(t, "Привет. Мир", res.Text)
	assert.Equal(t, "en", res.Source)
	assert.Equal(t, map[string]string{"sl": "auto", "tl": "ru", "q": "Hello. World", "client": "gtx"}, got)
}

func TestGoogleBackendHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewGoogleBackend(srv.URL, time.Second).Translate(context.Background(), "x", "en", "ru")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestParseGoogleResponse(t *testing.T) {
	_, err := parseGoogleResponse([]byte(`not json`))
	assert.Error(t, err)

	_, err = parseGoogleResponse([]byte(`[]`))
	assert.ErrorIs(t, err, ErrEmptyResult)

	_, err = parseGoogleResponse([]byte(`[[],null,"en"]`))
	assert.ErrorIs(t, err, ErrEmptyResult)

	res, err := parseGoogleResponse([]byte(`[[["ok","ok"]]]`))
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Text)
	assert.Empty(t, res.Source)
}
