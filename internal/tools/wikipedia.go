package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

const wikipediaAPIURL = "https://en.wikipedia.org/w/api.php"

// Wikipedia looks up encyclopedia article summaries via the MediaWiki API.
type Wikipedia struct {
	baseURL string
	client  *http.Client
}

// NewWikipedia creates the encyclopedia lookup tool against the public
// English Wikipedia API.
func NewWikipedia() *Wikipedia {
	return NewWikipediaWithBaseURL(wikipediaAPIURL)
}

// NewWikipediaWithBaseURL creates the tool against a custom API endpoint.
// Used by tests to point at a stub server.
func NewWikipediaWithBaseURL(baseURL string) *Wikipedia {
	return &Wikipedia{
		baseURL: baseURL,
		client:  newHTTPClient(0),
	}
}

// Spec implements Tool.
func (t *Wikipedia) Spec() Spec {
	return Spec{
		Name:        "wikipedia_search",
		Description: "Look up encyclopedia article summaries for a topic, statute, or legal term.",
		Parameters:  querySpecParameters(),
	}
}

type wikipediaPage struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

type wikipediaResponse struct {
	Query struct {
		Pages map[string]wikipediaPage `json:"pages"`
	} `json:"query"`
}

// Call implements Tool. It searches for the query and returns the intro
// extracts of the top matching articles.
func (t *Wikipedia) Call(ctx context.Context, arguments json.RawMessage) (string, error) {
	query, err := parseQueryArgs(arguments)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("generator", "search")
	params.Set("gsrsearch", query)
	params.Set("gsrlimit", "3")
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build wikipedia request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("wikipedia request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wikipedia returned status %d", resp.StatusCode)
	}

	var body wikipediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode wikipedia response: %w", err)
	}

	pages := make([]wikipediaPage, 0, len(body.Query.Pages))
	for _, p := range body.Query.Pages {
		if strings.TrimSpace(p.Extract) == "" {
			continue
		}
		pages = append(pages, p)
	}
	if len(pages) == 0 {
		return "No encyclopedia results for " + query + ".", nil
	}

	// The pages map is unordered; "index" carries search relevance.
	sort.Slice(pages, func(i, j int) bool { return pages[i].Index < pages[j].Index })

	var b strings.Builder
	for _, p := range pages {
		fmt.Fprintf(&b, "%s:\n%s\n\n", p.Title, strings.TrimSpace(p.Extract))
	}
	return truncate(strings.TrimSpace(b.String())), nil
}
