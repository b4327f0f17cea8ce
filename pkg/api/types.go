package api

// Response status tags. The backend's response shapes are keyed on a status
// string; anything outside this set must be treated as not-found by callers.
const (
	// StatusIdentified marks a personal-memory match for a person or object.
	StatusIdentified = "identified"

	// StatusGenericDetection marks recognized object labels with no
	// personal-memory match.
	StatusGenericDetection = "generic_detection"

	// StatusNotFound marks a recognition miss.
	StatusNotFound = "not_found"

	// StatusFound marks a successful chat query answer.
	StatusFound = "found"

	// StatusStored marks a successful enrollment.
	StatusStored = "stored"
)

// Person is an enrolled person profile.
type Person struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Relation string `json:"relation,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Age      string `json:"age,omitempty"`

	// Audio is the person's recorded voice sample as base64, when one was
	// enrolled.
	Audio string `json:"audio,omitempty"`
}

// Object is an enrolled object record.
type Object struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Detection is one generic object-detector label.
type Detection struct {
	Object     string  `json:"object"`
	Confidence float64 `json:"confidence,omitempty"`
}

// RecognizeResult is the response of the recognition endpoints. Exactly one
// of Person, Object, or Objects is populated, keyed on Status.
type RecognizeResult struct {
	Status  string      `json:"status"`
	Person  *Person     `json:"person,omitempty"`
	Object  *Object     `json:"object,omitempty"`
	Objects []Detection `json:"objects,omitempty"`
}

// ChatResult is the response of the chat query endpoint.
type ChatResult struct {
	Status string  `json:"status"`
	Text   string  `json:"text"`
	Person *Person `json:"person,omitempty"`

	// PersonAudio is the identified person's authoritative voice sample
	// (base64). When present it takes precedence over AudioBase64.
	PersonAudio string `json:"person_audio,omitempty"`

	// AudioBase64 is generic synthesized audio for the answer (base64).
	AudioBase64 string `json:"audio_base64,omitempty"`

	// ImageBase64 is an illustrative image for the answer (base64 JPEG).
	ImageBase64 string `json:"image_base64,omitempty"`

	// Gallery is an ordered list of base64 JPEG images.
	Gallery []string `json:"gallery,omitempty"`
}

// EnrollResult is the response of the enrollment endpoints.
type EnrollResult struct {
	Status string `json:"status"`

	// AvatarURL references a generated avatar asset for person
	// enrollments, when the backend produced one.
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Question is one daily-quiz question.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	ContextType   string   `json:"context_type,omitempty"`
}

// QuizSubmission reports one answered question.
type QuizSubmission struct {
	Question        string `json:"question"`
	ExpectedAnswer  string `json:"expected_answer"`
	PatientResponse string `json:"patient_response"`
	ContextType     string `json:"context_type,omitempty"`
}

// QuizStats summarizes engagement with the daily quiz.
type QuizStats struct {
	TotalAnswered int     `json:"total_answered"`
	TotalCorrect  int     `json:"total_correct"`
	Accuracy      float64 `json:"accuracy"`
	Streak        int     `json:"streak,omitempty"`
}

// Task is one caregiver task mined from conversation history.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// TaskUpdate is a partial task update.
type TaskUpdate struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Credentials is the response of the login endpoint.
type Credentials struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
}
