package domain

import "time"

type SubmissionKind string

const (
	KindNotify       SubmissionKind = "notify"
	KindListProperty SubmissionKind = "list_property"
	KindBookViewing  SubmissionKind = "book_viewing"
	KindSave         SubmissionKind = "save"
	KindEmailAgent   SubmissionKind = "email_agent"
	KindAgentSignup  SubmissionKind = "agent_signup"
)

var acknowledgements = map[SubmissionKind]string{
	KindNotify:       "Thanks! You're on the list. (Prototype only, no email sent.)",
	KindListProperty: "Submitted! In production, this would POST to your backend / Airtable / Google Sheet.",
	KindBookViewing:  "This would open a calendar in a real app.",
	KindSave:         "Saved! (Prototype only)",
	KindEmailAgent:   "This would open an email form in a real app.",
	KindAgentSignup:  "This would open an agent sign-up flow.",
}

// Acknowledgement returns the message shown after a kind is submitted, or "" for
// unknown kinds.
func (k SubmissionKind) Acknowledgement() string { return acknowledgements[k] }

func (k SubmissionKind) Valid() bool {
	_, ok := acknowledgements[k]
	return ok
}

// ListPropertyForm is the "List a Property" payload. Price and contact are kept as
// typed by the user.
type ListPropertyForm struct {
	Status   string `json:"status" validate:"required,status"`
	City     string `json:"city" validate:"required,city"`
	Type     string `json:"type" validate:"required,category"`
	Title    string `json:"title" validate:"required,max=200"`
	PriceUSD string `json:"priceUSD" validate:"omitempty,numeric"`
	Contact  string `json:"contact" validate:"required,max=40"`
}

type Submission struct {
	ID         string            `json:"id"`
	Kind       SubmissionKind    `json:"kind"`
	ListingID  string            `json:"listingId,omitempty"`
	Email      string            `json:"email,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	ReceivedAt time.Time         `json:"receivedAt"`
}

type Receipt struct {
	SubmissionID string         `json:"submissionId"`
	Kind         SubmissionKind `json:"kind"`
	Message      string         `json:"message"`
}
