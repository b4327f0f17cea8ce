package api

import (
	"context"
	"net/http"
)

// QuizService provides the daily memory quiz lifecycle.
type QuizService struct {
	client *Client
}

// Daily fetches today's quiz questions. An empty slice means there are no
// enrolled memories to quiz on yet.
func (s *QuizService) Daily(ctx context.Context) ([]Question, error) {
	var questions []Question
	if err := s.client.http.requestJSON(ctx, http.MethodGet, "/quiz/daily", nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// Submit reports one answered question.
func (s *QuizService) Submit(ctx context.Context, sub *QuizSubmission) error {
	return s.client.http.requestJSON(ctx, http.MethodPost, "/quiz/submit", sub, nil)
}

// Stats fetches quiz engagement statistics.
func (s *QuizService) Stats(ctx context.Context) (*QuizStats, error) {
	var stats QuizStats
	if err := s.client.http.requestJSON(ctx, http.MethodGet, "/quiz/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
