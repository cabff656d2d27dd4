/*
 * @module client/llm_client
 * @description 大模型客户端，调用 OpenAI 兼容接口辅助敏感字段研判
 * @architecture 客户端层 - 封装 HTTP 调用，通过环境变量配置
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 构造请求 -> 调用 chat/completions -> 提取首条回复文本
 * @rules 调用失败返回错误而不是 panic，由调用方决定降级行为；超时由 context 控制
 * @dependencies net/http, encoding/json, github.com/spf13/cast
 * @refs service/pipeline/masking_stage.go
 */

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
)

var (
	llmAPIURL  = os.Getenv("LLM_API_URL")
	llmAPIKey  = os.Getenv("LLM_API_KEY")
	llmModel   = os.Getenv("LLM_MODEL")
	llmTimeout = cast.ToInt(os.Getenv("LLM_TIMEOUT_SECONDS"))
)

// LLMClient OpenAI 兼容接口的客户端
type LLMClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewLLMClient 创建大模型客户端
func NewLLMClient(baseURL, apiKey, model string, timeout time.Duration) *LLMClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LLMClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewLLMClientFromEnv 从环境变量创建客户端，未配置接口地址时返回 nil
func NewLLMClientFromEnv() *LLMClient {
	if llmAPIURL == "" {
		return nil
	}
	model := llmModel
	if model == "" {
		model = "gpt-4o-mini"
	}
	timeout := time.Duration(llmTimeout) * time.Second
	return NewLLMClient(llmAPIURL, llmAPIKey, model, timeout)
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Analyze 发送提示词并返回模型的文本回复
func (c *LLMClient) Analyze(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("构造请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("调用大模型接口失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("大模型接口返回状态码 %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("解析响应失败: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("大模型接口未返回任何回复")
	}
	return parsed.Choices[0].Message.Content, nil
}

// ExtractJSON 从模型回复中提取首个 JSON 对象片段
// 模型常在 JSON 前后附带说明文字或代码块标记
func ExtractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
