package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

// runCLI executes the CLI against an isolated HOME.
func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// backend serves the answering API with canned responses.
func backend(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ask", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})
	mux.HandleFunc("/info", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"name":"EU AI Act RAG API","version":"1.0.0"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

const answerBody = `{"answer":"A high-risk AI system is one listed in Annex III.","chunks":[{"text":"Art. 6 defines...","metadata":{"source":"Art.6"},"distance":0.1}]}`

func TestAsk_Text(t *testing.T) {
	srv := backend(t, http.StatusOK, answerBody)

	res := runCLI(t, "", "--server", srv.URL, "ask", "What is a high-risk", "AI system?")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "A high-risk AI system is one listed in Annex III.")
	assert.Contains(t, res.stdout, "[1] Art.6")
	assert.Contains(t, res.stdout, "(score 0.90)")
	assert.Contains(t, res.stdout, "Art. 6 defines...")
	assert.Empty(t, res.stderr)
}

func TestAsk_NoSources(t *testing.T) {
	srv := backend(t, http.StatusOK, answerBody)

	res := runCLI(t, "", "--server", srv.URL, "ask", "--sources=false", "q")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Annex III")
	assert.NotContains(t, res.stdout, "Art.6")
}

func TestAsk_JSON(t *testing.T) {
	srv := backend(t, http.StatusOK, answerBody)

	res := runCLI(t, "", "--server", srv.URL, "ask", "-o", "json", "q")
	require.Equal(t, 0, res.code, res.stderr)

	var view struct {
		Phase  string `json:"phase"`
		Answer struct {
			Text     string `json:"text"`
			Passages []struct {
				Source string `json:"source"`
				Score  string `json:"score"`
			} `json:"passages"`
		} `json:"answer"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &view))
	assert.Equal(t, "succeeded", view.Phase)
	require.Len(t, view.Answer.Passages, 1)
	assert.Equal(t, "Art.6", view.Answer.Passages[0].Source)
	assert.Equal(t, "0.90", view.Answer.Passages[0].Score)
}

func TestAsk_Stdin(t *testing.T) {
	srv := backend(t, http.StatusOK, answerBody)

	res := runCLI(t, "What is a high-risk AI system?\n", "--server", srv.URL, "ask", "-")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Annex III")
}

func TestAsk_Failures(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name       string
		server     func(t *testing.T) string
		wantStderr []string
	}{
		{
			name:       "server error detail",
			server:     func(t *testing.T) string { return backend(t, 500, `{"detail":"index unavailable"}`).URL },
			wantStderr: []string{"Server error: index unavailable"},
		},
		{
			name:       "unreachable",
			server:     func(*testing.T) string { return closedURL },
			wantStderr: []string{"Backend unreachable: no response from server", "Please check if the backend is running."},
		},
		{
			name:       "missing chunks",
			server:     func(t *testing.T) string { return backend(t, 200, `{"answer":"x"}`).URL },
			wantStderr: []string{"Request failed:", `missing field "chunks"`},
		},
		{
			name:       "bad server url",
			server:     func(*testing.T) string { return "ftp://example.com" },
			wantStderr: []string{"Request failed:", "invalid server URL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "", "--server", tt.server(t), "ask", "What is a high-risk AI system?")
			assert.Equal(t, 1, res.code)
			assert.Empty(t, res.stdout)
			for _, w := range tt.wantStderr {
				assert.Contains(t, res.stderr, w)
			}
			assert.NotContains(t, res.stderr, "Error:", "classified failures are printed once")
		})
	}
}

func TestAsk_EmptyQuestion(t *testing.T) {
	srv := backend(t, http.StatusOK, answerBody)

	res := runCLI(t, "   \n", "--server", srv.URL, "ask")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Error: question is empty")
}

func TestAsk_BadOutputFlag(t *testing.T) {
	res := runCLI(t, "", "ask", "-o", "xml", "q")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "--output must be text or json")
}

func TestHealthAndInfo(t *testing.T) {
	srv := backend(t, http.StatusOK, answerBody)

	res := runCLI(t, "", "--server", srv.URL, "health")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Server Status: ok")
	assert.Contains(t, res.stdout, "Server URL: "+srv.URL)

	res = runCLI(t, "", "--server", srv.URL, "info")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "name: EU AI Act RAG API")
	assert.Contains(t, res.stdout, "version: 1.0.0")
}

func TestHealth_Unreachable(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	url := closed.URL
	closed.Close()

	res := runCLI(t, "", "--server", url, "health")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Error: health check failed")
}

func TestConfigCmd(t *testing.T) {
	t.Setenv("AIACTQA_UI_PAGE_SIZE", "5")

	res := runCLI(t, "", "--timeout", "10s", "config")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "url: http://localhost:8000")
	assert.Contains(t, res.stdout, "timeout: 10s")
	assert.Contains(t, res.stdout, "page_size: 5")
	assert.Contains(t, res.stdout, "level: info")
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("AIACTQA_UI_PAGE_SIZE", "0")

	res := runCLI(t, "", "config")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "ui.page_size")
}
