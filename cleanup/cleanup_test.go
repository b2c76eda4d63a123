package cleanup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
)

func TestNew_DisabledWithoutKey(t *testing.T) {
	cleaner := New("")
	if cleaner.Enabled() {
		t.Error("Cleaner should be disabled without an API key")
	}

	input := "raw OCR\ntext with  artifacts"
	out, err := cleaner.Clean(context.Background(), input)
	if err != nil {
		t.Fatalf("Clean() failed: %v", err)
	}
	if out != input {
		t.Errorf("Disabled Clean() = %q, want input unchanged", out)
	}
}

func TestNew_Enabled(t *testing.T) {
	cleaner := New("test-key")
	if !cleaner.Enabled() {
		t.Error("Cleaner should be enabled with an API key")
	}
	if cleaner.Model() != DefaultModel {
		t.Errorf("Model() = %s, want %s", cleaner.Model(), DefaultModel)
	}
}

func TestOptions(t *testing.T) {
	cleaner := New("test-key", WithModel("gpt-4o-mini"))
	if cleaner.Model() != "gpt-4o-mini" {
		t.Errorf("WithModel() = %s, want gpt-4o-mini", cleaner.Model())
	}

	// Empty model keeps the default
	cleaner = New("test-key", WithModel(""))
	if cleaner.Model() != DefaultModel {
		t.Errorf("WithModel(\"\") = %s, want default", cleaner.Model())
	}
}

func TestNewFromEnv(t *testing.T) {
	origKey := os.Getenv("OPENAI_API_KEY")
	origModel := os.Getenv("OPENAI_MODEL")
	origBase := os.Getenv("OPENAI_BASE_URL")
	defer func() {
		os.Setenv("OPENAI_API_KEY", origKey)
		os.Setenv("OPENAI_MODEL", origModel)
		os.Setenv("OPENAI_BASE_URL", origBase)
	}()

	os.Unsetenv("OPENAI_API_KEY")
	os.Unsetenv("OPENAI_MODEL")
	os.Unsetenv("OPENAI_BASE_URL")
	if NewFromEnv().Enabled() {
		t.Error("NewFromEnv() should be disabled without OPENAI_API_KEY")
	}

	os.Setenv("OPENAI_API_KEY", "test-key")
	os.Setenv("OPENAI_MODEL", "gpt-4o")
	cleaner := NewFromEnv()
	if !cleaner.Enabled() {
		t.Error("NewFromEnv() should be enabled with OPENAI_API_KEY")
	}
	if cleaner.Model() != "gpt-4o" {
		t.Errorf("Model() = %s, want gpt-4o", cleaner.Model())
	}
}

func TestClean_MockServer(t *testing.T) {
	var requests int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)

		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("Expected a single user message, got %+v", req.Messages)
		}
		if !strings.Contains(req.Messages[0].Content, "OCR TEXT:\nmonday 12/3 fed the cat") {
			t.Error("Prompt should embed the raw OCR text")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "mock-1",
			"object": "chat.completion",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "  # 12/3\n\n- fed the cat\n  "},
				"finish_reason": "stop"
			}]
		}`))
	}))
	defer server.Close()

	cleaner := New("test-key", WithBaseURL(server.URL))
	out, err := cleaner.Clean(context.Background(), "monday 12/3 fed the cat")
	if err != nil {
		t.Fatalf("Clean() failed: %v", err)
	}

	want := "# 12/3\n\n- fed the cat"
	if out != want {
		t.Errorf("Clean() = %q, want trimmed %q", out, want)
	}
	if requests != 1 {
		t.Errorf("Made %d requests, want 1", requests)
	}
}

func TestClean_RemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	cleaner := New("test-key", WithBaseURL(server.URL))
	_, err := cleaner.Clean(context.Background(), "some text")
	if err == nil {
		t.Fatal("Clean() should propagate remote failures")
	}
	if !strings.Contains(err.Error(), "cleanup request failed") {
		t.Errorf("Error = %v, want wrapped cleanup failure", err)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("scribbled text here")

	for _, rule := range []string{
		"Preserve meaning",
		"Fix obvious OCR artifacts",
		"Keep original ordering",
		"Output as Markdown",
		"top-level heading",
		"bullets",
	} {
		if !strings.Contains(prompt, rule) {
			t.Errorf("Prompt missing rule: %s", rule)
		}
	}

	if !strings.HasSuffix(prompt, "OCR TEXT:\nscribbled text here") {
		t.Error("Prompt should end with the raw OCR text")
	}
}

func TestCheckConfig(t *testing.T) {
	origKey := os.Getenv("OPENAI_API_KEY")
	defer os.Setenv("OPENAI_API_KEY", origKey)

	os.Setenv("OPENAI_API_KEY", "test-key")
	if !CheckConfig() {
		t.Error("CheckConfig() should be true with key set")
	}

	os.Unsetenv("OPENAI_API_KEY")
	if CheckConfig() {
		t.Error("CheckConfig() should be false without key")
	}
}
