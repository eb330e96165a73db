package importer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Response is the subset of an Overpass API JSON answer the importer reads.
type Response struct {
	Elements []Element `json:"elements"`
}

// Element is an OSM node or way. Ways carry member node ids and, when the
// query asked for "out center", a precomputed center.
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *Point            `json:"center,omitempty"`
	Nodes  []int64           `json:"nodes,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Decode parses an Overpass JSON document.
func Decode(r io.Reader) (*Response, error) {
	var resp Response
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decoding overpass response: %w", err)
	}
	return &resp, nil
}

// Query builds the Overpass QL request for every imported category inside
// the named administrative area. Member nodes of ways are returned as
// skeletons so centroids can be computed.
func Query(area string) string {
	var b strings.Builder
	b.WriteString("[out:json][timeout:60];\n")
	fmt.Fprintf(&b, "area[\"name\"=%q][\"boundary\"=\"administrative\"]->.a;\n", area)
	b.WriteString("(\n")
	for _, sel := range selectors {
		fmt.Fprintf(&b, "  node(area.a)[%q=%q];\n", sel.key, sel.value)
		fmt.Fprintf(&b, "  way(area.a)[%q=%q];\n", sel.key, sel.value)
	}
	b.WriteString(");\nout body;\n>;\nout skel qt;\n")
	return b.String()
}

// Client posts queries to an Overpass API interpreter endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

func (c *Client) Fetch(ctx context.Context, query string) (*Response, error) {
	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("overpass API returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return Decode(resp.Body)
}
