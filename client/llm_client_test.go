package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLLMClientAnalyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"is_sensitive\":true}"}}]}`))
	}))
	defer server.Close()

	c := NewLLMClient(server.URL, "test-key", "test-model", 5*time.Second)
	reply, err := c.Analyze(context.Background(), "分析这个字段")
	assert.NoError(t, err)
	assert.Equal(t, `{"is_sensitive":true}`, reply)
}

func TestLLMClientAnalyzeErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewLLMClient(server.URL, "", "m", time.Second)
	_, err := c.Analyze(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestLLMClientAnalyzeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := NewLLMClient(server.URL, "", "m", time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Analyze(ctx, "prompt")
	assert.Error(t, err)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"纯JSON", `{"a":1}`, `{"a":1}`, true},
		{"带说明文字", "分析结果如下:\n```json\n{\"a\":1}\n```\n以上", `{"a":1}`, true},
		{"无JSON", "没有任何结构化内容", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}
