package geourl

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/susu3304/geoguess/internal/geoscore"
)

var (
	ErrNoCoordinates = errors.New("no coordinates found")
	ErrOutOfRange    = errors.New("coordinates out of range")
	// ErrHostNotAllowed is returned for links outside the short link allowlist.
	ErrHostNotAllowed = errors.New("only map links can be followed")
	ErrUnreachable    = errors.New("map link could not be followed")
)

var (
	reAt     = regexp.MustCompile(`@(-?\d+(?:\.\d+)?),(-?\d+(?:\.\d+)?)`)
	re3d4d   = regexp.MustCompile(`!3d(-?\d+(?:\.\d+)?)!4d(-?\d+(?:\.\d+)?)`)
	reSearch = regexp.MustCompile(`/maps/search/(-?\d+(?:\.\d+)?),\s*\+?\s*(-?\d+(?:\.\d+)?)`)
	reOSMMap = regexp.MustCompile(`map=\d+(?:\.\d+)?/(-?\d+(?:\.\d+)?)/(-?\d+(?:\.\d+)?)`)
	reGeo    = regexp.MustCompile(`^geo:(-?\d+(?:\.\d+)?),(-?\d+(?:\.\d+)?)`)
	reQ      = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*$`)
)

// ShortLinkHosts are the map hosts whose links may be followed over the network.
var ShortLinkHosts = []string{
	"maps.app.goo.gl",
	"goo.gl",
	"maps.google.com",
	"www.google.com",
	"google.com",
}

// Resolver follows map short links for hosts on its allowlist only.
type Resolver struct {
	Client *http.Client
	Hosts  []string
}

var defaultResolver = NewResolver(ShortLinkHosts)

func NewResolver(hosts []string) *Resolver {
	r := &Resolver{Hosts: hosts}
	r.Client = &http.Client{
		Timeout:       15 * time.Second,
		CheckRedirect: r.checkRedirect,
	}
	return r
}

// Parse turns player input into a coordinate. It accepts plain "lat,lng" text,
// geo: URIs and map URLs. Map short links are followed to find the coordinates.
func Parse(ctx context.Context, input string) (geoscore.Coordinate, error) {
	return defaultResolver.Parse(ctx, input)
}

func (r *Resolver) Parse(ctx context.Context, input string) (geoscore.Coordinate, error) {
	input = strings.TrimSpace(input)

	if m := reQ.FindStringSubmatch(input); len(m) == 3 {
		return checked(parse2(m[1], m[2]))
	}
	if lat, lng, ok := extractFromURL(input); ok {
		return checked(lat, lng, true)
	}
	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		return geoscore.Coordinate{}, fmt.Errorf("%w in %q", ErrNoCoordinates, input)
	}

	lat, lng, err := r.ExpandAndExtractCoords(ctx, input)
	if err != nil {
		return geoscore.Coordinate{}, err
	}
	return checked(lat, lng, true)
}

func checked(lat, lng float64, ok bool) (geoscore.Coordinate, error) {
	if !ok {
		return geoscore.Coordinate{}, ErrNoCoordinates
	}
	c := geoscore.Coordinate{Lat: lat, Lng: lng}
	if !c.Valid() {
		return geoscore.Coordinate{}, fmt.Errorf("%w: %v", ErrOutOfRange, c)
	}
	return c, nil
}

func (r *Resolver) allowed(u *url.URL) bool {
	if u == nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range r.Hosts {
		if host == strings.ToLower(h) {
			return true
		}
	}
	return false
}

func (r *Resolver) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return errors.New("too many redirects")
	}
	if !r.allowed(req.URL) {
		return ErrHostNotAllowed
	}
	return nil
}

// ExpandAndExtractCoords expands a map short URL and extracts coordinates from the final URL.
// Links outside the allowlist are refused before any request is made.
func (r *Resolver) ExpandAndExtractCoords(ctx context.Context, input string) (lat float64, lng float64, err error) {
	u, err := url.Parse(input)
	if err != nil || !r.allowed(u) {
		return 0, 0, ErrHostNotAllowed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, 0, ErrHostNotAllowed
	}
	// Some endpoints behave better with a UA.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; GeoTools/1.0)")
	req.Header.Set("Accept-Language", "en;q=0.8")

	resp, err := r.Client.Do(req)
	if err != nil {
		if errors.Is(err, ErrHostNotAllowed) {
			return 0, 0, ErrHostNotAllowed
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, 0, fmt.Errorf("%w: %w", ErrUnreachable, ctxErr)
		}
		return 0, 0, ErrUnreachable
	}
	defer resp.Body.Close()

	// After redirects, this is the final URL.
	if resp.Request == nil || resp.Request.URL == nil {
		return 0, 0, ErrUnreachable
	}

	lat, lng, ok := extractFromURL(resp.Request.URL.String())
	if !ok {
		return 0, 0, fmt.Errorf("%w in the linked page", ErrNoCoordinates)
	}
	return lat, lng, nil
}

func extractFromURL(s string) (lat, lng float64, ok bool) {
	// Pattern A: .../@lat,lng,zoom...
	if m := reAt.FindStringSubmatch(s); len(m) == 3 {
		return parse2(m[1], m[2])
	}
	// Pattern B: ...!3dlat!4dlng...
	if m := re3d4d.FindStringSubmatch(s); len(m) == 3 {
		return parse2(m[1], m[2])
	}
	// Pattern C: .../maps/search/lat,+lng
	if unescaped, err := url.PathUnescape(s); err == nil {
		if m := reSearch.FindStringSubmatch(unescaped); len(m) == 3 {
			return parse2(m[1], m[2])
		}
	}
	// Pattern D: query params like ?q=lat,lng or ?query=lat,lng, or OSM ?mlat=&mlon=
	u, err := url.Parse(s)
	if err == nil && u.Host != "" {
		q := u.Query()
		for _, key := range []string{"q", "query"} {
			if v := q.Get(key); v != "" {
				if mm := reQ.FindStringSubmatch(v); len(mm) == 3 {
					return parse2(mm[1], mm[2])
				}
			}
		}
		if q.Get("mlat") != "" && q.Get("mlon") != "" {
			return parse2(q.Get("mlat"), q.Get("mlon"))
		}
	}

	// OpenStreetMap viewport: #map=zoom/lat/lng
	if m := reOSMMap.FindStringSubmatch(s); len(m) == 3 {
		return parse2(m[1], m[2])
	}
	if m := reGeo.FindStringSubmatch(s); len(m) == 3 {
		return parse2(m[1], m[2])
	}

	return 0, 0, false
}

func parse2(a, b string) (lat, lng float64, ok bool) {
	la, err1 := strconv.ParseFloat(a, 64)
	lo, err2 := strconv.ParseFloat(b, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return la, lo, true
}
