// Package api provides the Go client for the companion recognition/LLM
// backend.
//
// The backend does face and object recognition, memory-grounded chat
// answering, quiz generation, and caregiver task mining; this package only
// speaks its request/response contract.
//
// # Basic Usage
//
//	client := api.NewClient(api.WithBaseURL("https://companion.example/api/v1"))
//
//	// Authenticate; the bearer token is installed on the client.
//	creds, err := client.Auth.Login(ctx, "maria", "s3cret")
//
//	// Recognize a captured frame
//	result, err := client.Recognition.RecognizePerson(ctx, frameBytes)
//	if result.Status == api.StatusIdentified {
//	    fmt.Println(result.Person.Name)
//	}
//
//	// Ask a free-text question
//	answer, err := client.Chat.Query(ctx, "Where is my wallet?")
//
// # Error Handling
//
//	res, err := client.Enrollment.RememberPerson(ctx, req)
//	if err != nil {
//	    if e, ok := api.AsError(err); ok && e.Detail != "" {
//	        // e.Detail is safe to show to the user
//	    }
//	}
//
// Transport failures and malformed responses come back as wrapped plain
// errors; backend rejections come back as *Error with the HTTP status and
// the backend's human-readable detail.
package api
