package entities

import "fmt"

// PromptRequest is the assembled input for one inference call.
type PromptRequest struct {
	SystemInstruction string
	UserMessage       string
	Temperature       float64
	MaxOutputTokens   int
}

// InferenceErrorKind classifies why an inference call produced no answer.
type InferenceErrorKind string

const (
	InferenceMissingCredential InferenceErrorKind = "missing_credential"
	InferenceTransport         InferenceErrorKind = "transport"
	InferenceAPIError          InferenceErrorKind = "api_error"
	InferenceNoContent         InferenceErrorKind = "no_content"
	InferenceUnexpected        InferenceErrorKind = "unexpected"
)

// InferenceError is returned by inference providers. Detail is the
// human-readable message shown to end users in place of an answer.
type InferenceError struct {
	Kind       InferenceErrorKind
	Detail     string
	StatusCode int
	Err        error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference %s: %s", e.Kind, e.Detail)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// Consultation is the result of one ask or analyze operation.
type Consultation struct {
	PatientID string
	Question  string
	Answer    string
	// Failure is set when Answer carries an inference error detail.
	Failure *InferenceError
}
