package api

import "context"

// RecognitionService provides face and object recognition from still frames.
type RecognitionService struct {
	client *Client
}

// RecognizePerson submits a captured frame for face recognition.
func (s *RecognitionService) RecognizePerson(ctx context.Context, frame []byte) (*RecognizeResult, error) {
	var result RecognizeResult
	files := []filePart{{field: "file", filename: "capture.jpg", data: frame}}
	if err := s.client.http.uploadMultipart(ctx, "/recognize/person", files, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FindObject submits a captured frame for object recognition against the
// personal memory, falling back to generic detection on the backend side.
func (s *RecognitionService) FindObject(ctx context.Context, frame []byte) (*RecognizeResult, error) {
	var result RecognizeResult
	files := []filePart{{field: "file", filename: "capture.jpg", data: frame}}
	if err := s.client.http.uploadMultipart(ctx, "/find/object", files, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
