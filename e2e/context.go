// Package e2e drives a running visadesk server through its HTTP API with
// godog scenarios. Point VISADESK_E2E_BASE_URL at the server (default
// http://localhost:8080) and start it with VISADESK_SIMULATE_LATENCY=false.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultBaseURL = "http://localhost:8080"

// TestContext holds per-scenario HTTP state.
type TestContext struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string

	LastStatus int
	LastBody   []byte
	vars       map[string]string
}

func NewTestContext() *TestContext {
	base := os.Getenv("VISADESK_E2E_BASE_URL")
	if base == "" {
		base = defaultBaseURL
	}
	return &TestContext{
		BaseURL:    strings.TrimRight(base, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Token:      os.Getenv("VISADESK_E2E_TOKEN"),
		vars:       map[string]string{},
	}
}

func (tc *TestContext) Reset() {
	tc.LastStatus = 0
	tc.LastBody = nil
	tc.vars = map[string]string{}
}

// Do sends a request with an optional JSON body and records the response.
func (tc *TestContext) Do(method, path string, body any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, tc.BaseURL+tc.Expand(path), r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.Token != "" {
		req.Header.Set("Authorization", "Bearer "+tc.Token)
	}
	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	tc.LastStatus = resp.StatusCode
	tc.LastBody, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) Status() int { return tc.LastStatus }

// Field walks a dotted path ("view.errors.email") through the last JSON body.
func (tc *TestContext) Field(path string) (any, error) {
	var cur any
	if err := json.Unmarshal(tc.LastBody, &cur); err != nil {
		return nil, fmt.Errorf("response is not JSON: %s", tc.LastBody)
	}
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%q: %q is not an object", path, part)
		}
		if cur, ok = obj[part]; !ok {
			return nil, fmt.Errorf("%q: missing %q in %s", path, part, tc.LastBody)
		}
	}
	return cur, nil
}

// Remember stores a value that later paths can reference as {name}.
func (tc *TestContext) Remember(name, value string) { tc.vars[name] = value }

func (tc *TestContext) Expand(path string) string {
	for k, v := range tc.vars {
		path = strings.ReplaceAll(path, "{"+k+"}", v)
	}
	return path
}

func (tc *TestContext) Body() string { return string(tc.LastBody) }
