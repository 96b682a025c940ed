package apppass

import "github.com/tidwall/gjson"

// Result is the normalized outcome of an App Pass check. Every public
// operation returns a structurally valid Result; callers branch on
// Status, Message is advisory only.
type Result struct {
	// Status is always one of the enumerated Status values.
	Status Status `json:"status"`

	// Message is an optional human-readable explanation, present when
	// the status is not ok.
	Message string `json:"message,omitempty"`

	// Email is the account email, present only when Status is ok.
	Email string `json:"email,omitempty"`

	// AppPassToken is an opaque credential, present only when Status is ok.
	AppPassToken string `json:"appPassToken,omitempty"`
}

// parseResult maps a terminal response body onto a Result. A missing or
// unrecognized status field degrades to unknown_error instead of an
// error; message passes through verbatim. Email and token only
// accompany an active pass.
func parseResult(body []byte) *Result {
	status := Status(gjson.GetBytes(body, "status").String())
	if !status.Known() {
		status = StatusUnknownError
	}

	result := &Result{
		Status:  status,
		Message: gjson.GetBytes(body, "message").String(),
	}
	if status == StatusOK {
		result.Email = gjson.GetBytes(body, "email").String()
		result.AppPassToken = gjson.GetBytes(body, "appPassToken").String()
	}
	return result
}
