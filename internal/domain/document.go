package domain

import "time"

// Student document review states.
const (
	DocumentPending  = "pending"
	DocumentApproved = "approved"
	DocumentRejected = "rejected"
)

// StudentDocument is an uploaded proof of enrollment (student ID card,
// admission letter) awaiting admin review.
type StudentDocument struct {
	DocumentID  string    `json:"id" dynamodbav:"document_id"`
	UserID      string    `json:"user_id" dynamodbav:"user_id"`
	Object      string    `json:"object" dynamodbav:"object"`
	ContentType string    `json:"content_type" dynamodbav:"content_type"`
	Size        int64     `json:"size" dynamodbav:"size"`
	Status      string    `json:"status" dynamodbav:"status"`
	ReviewedBy  *string   `json:"reviewed_by,omitempty" dynamodbav:"reviewed_by"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}

type SubmitDocumentRequest struct {
	ContentType string `json:"content_type" validate:"required"`
	Data        string `json:"data" validate:"required"` // base64-encoded document
}

type ReviewDocumentRequest struct {
	Approve bool `json:"approve"`
}
