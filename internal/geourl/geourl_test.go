package geourl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantLat float64
		wantLng float64
		wantOk  bool
	}{
		{
			name:    "Pattern A: @lat,lng format",
			url:     "https://www.google.com/maps/@35.696677,138.430228,15z",
			wantLat: 35.696677,
			wantLng: 138.430228,
			wantOk:  true,
		},
		{
			name:    "Pattern B: !3dlat!4dlng format",
			url:     "https://www.google.com/maps/place/Tokyo!3d35.6762!4d139.6503",
			wantLat: 35.6762,
			wantLng: 139.6503,
			wantOk:  true,
		},
		{
			name:    "Pattern C: /maps/search/lat,lng format with plus",
			url:     "https://www.google.com/maps/search/35.696677,+138.430228?coh=277533&entry=tts",
			wantLat: 35.696677,
			wantLng: 138.430228,
			wantOk:  true,
		},
		{
			name:    "Pattern C: /maps/search/lat,lng format without plus",
			url:     "https://www.google.com/maps/search/35.696677,138.430228",
			wantLat: 35.696677,
			wantLng: 138.430228,
			wantOk:  true,
		},
		{
			name:    "Pattern C: /maps/search/lat,lng with space separator",
			url:     "https://www.google.com/maps/search/35.696677, 138.430228",
			wantLat: 35.696677,
			wantLng: 138.430228,
			wantOk:  true,
		},
		{
			name:    "Pattern C: /maps/search/lat,lng with negative longitude",
			url:     "https://www.google.com/maps/search/35.696677,-138.430228",
			wantLat: 35.696677,
			wantLng: -138.430228,
			wantOk:  true,
		},
		{
			name:    "Pattern D: query param ?q=lat,lng",
			url:     "https://www.google.com/maps?q=35.696677,138.430228",
			wantLat: 35.696677,
			wantLng: 138.430228,
			wantOk:  true,
		},
		{
			name:    "Pattern D: query param ?query=lat,lng",
			url:     "https://www.google.com/maps?query=35.696677, 138.430228",
			wantLat: 35.696677,
			wantLng: 138.430228,
			wantOk:  true,
		},
		{
			name:    "Negative coordinates",
			url:     "https://www.google.com/maps/search/-33.8688,+151.2093",
			wantLat: -33.8688,
			wantLng: 151.2093,
			wantOk:  true,
		},
		{
			name:    "OpenStreetMap fragment",
			url:     "https://www.openstreetmap.org/#map=12/64.1270/-21.8174",
			wantLat: 64.127,
			wantLng: -21.8174,
			wantOk:  true,
		},
		{
			name:    "OpenStreetMap marker params",
			url:     "https://www.openstreetmap.org/?mlat=-22.95191&mlon=-43.21049#map=15/-22.95/-43.21",
			wantLat: -22.95191,
			wantLng: -43.21049,
			wantOk:  true,
		},
		{
			name:    "geo URI",
			url:     "geo:41.89021,12.49223;u=35",
			wantLat: 41.89021,
			wantLng: 12.49223,
			wantOk:  true,
		},
		{
			name:    "No coordinates",
			url:     "https://www.google.com/maps/place/Tokyo",
			wantLat: 0,
			wantLng: 0,
			wantOk:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotLat, gotLng, gotOk := extractFromURL(tt.url)
			if gotOk != tt.wantOk {
				t.Errorf("extractFromURL() gotOk = %v, want %v", gotOk, tt.wantOk)
				return
			}
			if !tt.wantOk {
				return
			}
			if gotLat != tt.wantLat {
				t.Errorf("extractFromURL() gotLat = %v, want %v", gotLat, tt.wantLat)
			}
			if gotLng != tt.wantLng {
				t.Errorf("extractFromURL() gotLng = %v, want %v", gotLng, tt.wantLng)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLat float64
		wantLng float64
		wantErr error
	}{
		{name: "plain pair", input: "48.85837,2.29448", wantLat: 48.85837, wantLng: 2.29448},
		{name: "pair with spaces", input: "  -33.85678 , 151.2153 ", wantLat: -33.85678, wantLng: 151.2153},
		{name: "map URL", input: "https://www.google.com/maps/@35.65858,139.74543,15z", wantLat: 35.65858, wantLng: 139.74543},
		{name: "latitude out of range", input: "123.4,10", wantErr: ErrOutOfRange},
		{name: "longitude out of range", input: "geo:10,200", wantErr: ErrOutOfRange},
		{name: "free text", input: "somewhere near Paris", wantErr: ErrNoCoordinates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(context.Background(), tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLat, c.Lat)
			assert.Equal(t, tt.wantLng, c.Lng)
		})
	}
}

func TestParseFollowsShortLinks(t *testing.T) {
	var landed atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/short", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/maps/place/Rome/@41.89021,12.49223,17z", http.StatusFound)
	})
	mux.HandleFunc("/nowhere", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/maps/place/Rome", http.StatusFound)
	})
	mux.HandleFunc("/maps/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/internal/", func(w http.ResponseWriter, r *http.Request) {
		landed.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	port := strings.TrimPrefix(srv.URL, "http://127.0.0.1:")
	mux.HandleFunc("/escape", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "http://localhost:"+port+"/internal/@41.89021,12.49223,17z", http.StatusFound)
	})

	res := NewResolver([]string{"127.0.0.1"})

	c, err := res.Parse(context.Background(), srv.URL+"/short")
	require.NoError(t, err)
	assert.Equal(t, 41.89021, c.Lat)
	assert.Equal(t, 12.49223, c.Lng)

	_, err = res.Parse(context.Background(), srv.URL+"/nowhere")
	require.ErrorIs(t, err, ErrNoCoordinates)
	assert.NotContains(t, err.Error(), srv.URL)

	_, err = res.Parse(context.Background(), srv.URL+"/escape")
	require.ErrorIs(t, err, ErrHostNotAllowed)
	assert.Zero(t, landed.Load())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = res.Parse(ctx, srv.URL+"/short")
	require.ErrorIs(t, err, ErrUnreachable)
}

func TestParseRefusesUnlistedHosts(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Redirect(w, r, "/maps/@41.89021,12.49223,17z", http.StatusFound)
	}))
	defer srv.Close()

	for _, link := range []string{
		srv.URL + "/short",
		"http://169.254.169.254/latest/meta-data",
		"https://maps.app.goo.gl.example.net/abc",
	} {
		_, err := Parse(context.Background(), link)
		require.ErrorIs(t, err, ErrHostNotAllowed, link)
		assert.NotContains(t, err.Error(), link)
	}
	assert.Zero(t, hits.Load())
}
