// internal/adapter/kakao/client.go

package kakao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"moim/internal/domain/meeting"
	"moim/internal/domain/place"
)

// DefaultBaseURL is the Kakao Local REST API root.
const DefaultBaseURL = "https://dapi.kakao.com/v2/local"

// ErrMissingAPIKey is returned by New when no REST API key is supplied.
var ErrMissingAPIKey = errors.New("kakao: REST API key is required")

// Client talks to the Kakao Local API. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// New creates a Kakao Local API client. The API key is mandatory: a missing
// key is a configuration error surfaced at construction, not at call time.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// document is one entry of a Kakao keyword/category search response.
type document struct {
	ID                string `json:"id"`
	PlaceName         string `json:"place_name"`
	CategoryName      string `json:"category_name"`
	CategoryGroupCode string `json:"category_group_code"`
	Phone             string `json:"phone"`
	AddressName       string `json:"address_name"`
	RoadAddressName   string `json:"road_address_name"`
	X                 string `json:"x"` // longitude
	Y                 string `json:"y"` // latitude
	PlaceURL          string `json:"place_url"`
	Distance          string `json:"distance"`
}

type keywordResponse struct {
	Documents []document `json:"documents"`
}

// SearchKeyword runs a keyword search and returns the parsed places. Kakao
// caps RadiusMeters at 20000 and Size at 15.
func (c *Client) SearchKeyword(ctx context.Context, query string, opts place.SearchOptions) ([]place.Result, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("sort", "accuracy")
	if opts.Size > 0 {
		params.Set("size", strconv.Itoa(opts.Size))
	}

	// Coordinates are attached only for real anchors; the sentinel pair
	// degrades to an unanchored query.
	if opts.Anchor != nil && opts.Anchor.HasCoordinates() {
		params.Set("x", strconv.FormatFloat(opts.Anchor.Longitude, 'f', -1, 64))
		params.Set("y", strconv.FormatFloat(opts.Anchor.Latitude, 'f', -1, 64))
		if opts.RadiusMeters > 0 {
			params.Set("radius", strconv.Itoa(opts.RadiusMeters))
		}
	}

	var resp keywordResponse
	if err := c.get(ctx, "/search/keyword.json", params, &resp); err != nil {
		return nil, fmt.Errorf("keyword search %q: %w", query, err)
	}

	return parseDocuments(resp.Documents), nil
}

type addressResponse struct {
	Documents []struct {
		AddressName string `json:"address_name"`
		X           string `json:"x"`
		Y           string `json:"y"`
	} `json:"documents"`
}

// ResolveAddress geocodes an address string. Returns nil when the provider
// knows no match for the query.
func (c *Client) ResolveAddress(ctx context.Context, query string) (*meeting.CenterLocation, error) {
	params := url.Values{}
	params.Set("query", query)

	var resp addressResponse
	if err := c.get(ctx, "/search/address.json", params, &resp); err != nil {
		return nil, fmt.Errorf("address search %q: %w", query, err)
	}

	if len(resp.Documents) == 0 {
		return nil, nil
	}

	doc := resp.Documents[0]
	lat, _ := strconv.ParseFloat(doc.Y, 64)
	lng, _ := strconv.ParseFloat(doc.X, 64)

	return &meeting.CenterLocation{
		Latitude:  lat,
		Longitude: lng,
		Address:   doc.AddressName,
		District:  DistrictFromAddress(doc.AddressName),
	}, nil
}

type regionResponse struct {
	Documents []struct {
		RegionType       string `json:"region_type"`
		Region2DepthName string `json:"region_2depth_name"`
	} `json:"documents"`
}

// DistrictForCoord reverse-geocodes a coordinate into its administrative
// district name. Returns "" when the region lookup has no answer.
func (c *Client) DistrictForCoord(ctx context.Context, lat, lng float64) (string, error) {
	params := url.Values{}
	params.Set("x", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("y", strconv.FormatFloat(lat, 'f', -1, 64))

	var resp regionResponse
	if err := c.get(ctx, "/geo/coord2regioncode.json", params, &resp); err != nil {
		return "", fmt.Errorf("region lookup (%f,%f): %w", lat, lng, err)
	}

	for _, doc := range resp.Documents {
		if doc.RegionType == "H" {
			return doc.Region2DepthName, nil
		}
	}

	return "", nil
}

// get performs an authenticated GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach Kakao API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Kakao API returned status code %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode Kakao API response: %w", err)
	}

	return nil
}

// parseDocuments converts raw documents into place results. Entries with
// unparsable coordinates are kept at (0,0) rather than dropped.
func parseDocuments(docs []document) []place.Result {
	results := make([]place.Result, 0, len(docs))
	for _, doc := range docs {
		lat, _ := strconv.ParseFloat(doc.Y, 64)
		lng, _ := strconv.ParseFloat(doc.X, 64)
		dist, _ := strconv.Atoi(doc.Distance)

		results = append(results, place.Result{
			ID:             doc.ID,
			Name:           doc.PlaceName,
			CategoryName:   doc.CategoryName,
			Address:        doc.AddressName,
			RoadAddress:    doc.RoadAddressName,
			Phone:          doc.Phone,
			URL:            doc.PlaceURL,
			Latitude:       lat,
			Longitude:      lng,
			DistanceMeters: dist,
		})
	}
	return results
}

// DistrictFromAddress extracts the administrative district from a Korean
// address, e.g. "서울 강남구 역삼동" -> "강남구".
func DistrictFromAddress(address string) string {
	for _, part := range strings.Fields(address) {
		if strings.HasSuffix(part, "구") || strings.HasSuffix(part, "군") {
			return part
		}
	}
	return ""
}
