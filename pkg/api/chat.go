package api

import (
	"context"
	"net/http"
)

// ChatService provides free-text memory queries.
type ChatService struct {
	client *Client
}

// Query sends a free-text query to the memory/LLM pipeline.
func (s *ChatService) Query(ctx context.Context, text string) (*ChatResult, error) {
	body := struct {
		Text string `json:"text"`
	}{Text: text}

	var result ChatResult
	if err := s.client.http.requestJSON(ctx, http.MethodPost, "/chat/query", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
