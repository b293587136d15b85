package models

import "time"

// RefundStatus tracks one refund request through staff review.
type RefundStatus string

const (
	RefundRequested   RefundStatus = "requested"
	RefundUnderReview RefundStatus = "under_review"
	RefundApproved    RefundStatus = "approved"
	RefundRejected    RefundStatus = "rejected"
	RefundProcessed   RefundStatus = "processed"
)

// refundTransitions mirrors the review flow: requested → under_review →
// approved/rejected, approved → processed.
var refundTransitions = map[RefundStatus][]RefundStatus{
	RefundRequested:   {RefundUnderReview, RefundApproved, RefundRejected},
	RefundUnderReview: {RefundApproved, RefundRejected},
	RefundApproved:    {RefundProcessed},
	RefundRejected:    {},
	RefundProcessed:   {},
}

// CanRefundTransition reports whether a refund status move is legal.
func CanRefundTransition(from, to RefundStatus) bool {
	for _, next := range refundTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Refund is one refund record per booking-refund event. The booking's
// refund_status mirrors the latest refund's status.
type Refund struct {
	ID          int64        `json:"id"`
	BookingID   int64        `json:"booking_id"`
	AmountCents int64        `json:"amount_cents"`
	Reason      string       `json:"reason"`
	Status      RefundStatus `json:"status"`
	RequestedBy int64        `json:"requested_by,omitempty"`
	ReviewedBy  int64        `json:"reviewed_by,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
