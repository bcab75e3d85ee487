package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const duckDuckGoAPIURL = "https://api.duckduckgo.com/"

// DuckDuckGo performs web searches via the DuckDuckGo Instant Answer API.
type DuckDuckGo struct {
	baseURL string
	client  *http.Client
}

// NewDuckDuckGo creates the web search tool against the public API.
func NewDuckDuckGo() *DuckDuckGo {
	return NewDuckDuckGoWithBaseURL(duckDuckGoAPIURL)
}

// NewDuckDuckGoWithBaseURL creates the tool against a custom endpoint.
// Used by tests to point at a stub server.
func NewDuckDuckGoWithBaseURL(baseURL string) *DuckDuckGo {
	return &DuckDuckGo{
		baseURL: baseURL,
		client:  newHTTPClient(0),
	}
}

// Spec implements Tool.
func (t *DuckDuckGo) Spec() Spec {
	return Spec{
		Name:        "web_search",
		Description: "Search the web for current information about laws, cases, or legal topics.",
		Parameters:  querySpecParameters(),
	}
}

type duckDuckGoTopic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}

type duckDuckGoResponse struct {
	Heading       string            `json:"Heading"`
	AbstractText  string            `json:"AbstractText"`
	AbstractURL   string            `json:"AbstractURL"`
	Answer        string            `json:"Answer"`
	RelatedTopics []duckDuckGoTopic `json:"RelatedTopics"`
}

// Call implements Tool. It returns the instant answer abstract plus a few
// related results for the query.
func (t *DuckDuckGo) Call(ctx context.Context, arguments json.RawMessage) (string, error) {
	query, err := parseQueryArgs(arguments)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build web search request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("web search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("web search returned status %d", resp.StatusCode)
	}

	var body duckDuckGoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode web search response: %w", err)
	}

	var b strings.Builder
	if body.Answer != "" {
		fmt.Fprintf(&b, "%s\n\n", body.Answer)
	}
	if body.AbstractText != "" {
		if body.Heading != "" {
			fmt.Fprintf(&b, "%s: ", body.Heading)
		}
		fmt.Fprintf(&b, "%s", body.AbstractText)
		if body.AbstractURL != "" {
			fmt.Fprintf(&b, " (%s)", body.AbstractURL)
		}
		b.WriteString("\n\n")
	}

	listed := 0
	for _, topic := range body.RelatedTopics {
		if topic.Text == "" {
			continue
		}
		fmt.Fprintf(&b, "- %s", topic.Text)
		if topic.FirstURL != "" {
			fmt.Fprintf(&b, " (%s)", topic.FirstURL)
		}
		b.WriteByte('\n')
		listed++
		if listed == 5 {
			break
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "No web results for " + query + ".", nil
	}
	return truncate(out), nil
}
