package api

import "context"

// EnrollmentService provides person and object enrollment.
type EnrollmentService struct {
	client *Client
}

// RememberPersonRequest enrolls a new person.
type RememberPersonRequest struct {
	// Photo is the enrollment photo (JPEG bytes). Required.
	Photo []byte

	// Name is the person's name. Required.
	Name string

	// Relation is the person's relation to the patient. Required.
	Relation string

	// Notes are free-form caregiver notes.
	Notes string

	// Age is optional.
	Age string

	// Audio is an optional recorded voice sample (WebM bytes).
	Audio []byte
}

// RememberObjectRequest enrolls a new object.
type RememberObjectRequest struct {
	// Photo is the enrollment photo (JPEG bytes). Required.
	Photo []byte

	// Name is the object's name. Required.
	Name string

	// Notes are free-form notes (e.g. usual location).
	Notes string
}

// RememberPerson submits a person enrollment as a single multipart request.
func (s *EnrollmentService) RememberPerson(ctx context.Context, req *RememberPersonRequest) (*EnrollResult, error) {
	files := []filePart{{field: "file", filename: "enroll.jpg", data: req.Photo}}
	if len(req.Audio) > 0 {
		files = append(files, filePart{field: "audio_file", filename: "voice.webm", data: req.Audio})
	}
	fields := map[string]string{
		"name":     req.Name,
		"notes":    req.Notes,
		"relation": req.Relation,
	}
	if req.Age != "" {
		fields["age"] = req.Age
	}

	var result EnrollResult
	if err := s.client.http.uploadMultipart(ctx, "/remember/person", files, fields, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RememberObject submits an object enrollment.
func (s *EnrollmentService) RememberObject(ctx context.Context, req *RememberObjectRequest) (*EnrollResult, error) {
	files := []filePart{{field: "file", filename: "enroll.jpg", data: req.Photo}}
	fields := map[string]string{
		"name":  req.Name,
		"notes": req.Notes,
	}

	var result EnrollResult
	if err := s.client.http.uploadMultipart(ctx, "/remember/object", files, fields, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
