package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type AuthorizationStatus string

const (
	StatusInitiated AuthorizationStatus = "initiated"
	StatusCompleted AuthorizationStatus = "completed"
	StatusApproved  AuthorizationStatus = "approved"
	StatusRejected  AuthorizationStatus = "rejected"
)

// ApproverPending is the approvedBy value of an undecided authorization.
const ApproverPending = "pending"

func ValidStatus(s AuthorizationStatus) bool {
	switch s {
	case StatusInitiated, StatusCompleted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// TerminalStatus reports whether s is a final decision. Updates may still
// leave a terminal status (no enforced transition table), but doing so is
// logged as unusual.
func TerminalStatus(s AuthorizationStatus) bool {
	return s == StatusApproved || s == StatusRejected
}

// Authorization is a company/visitor access request, not to be confused
// with the access-control checks in the middleware package.
type Authorization struct {
	ID          bson.ObjectID       `bson:"_id,omitempty" json:"id"`
	CompanyName string              `bson:"companyName" json:"companyName"`
	RUC         string              `bson:"ruc" json:"ruc"`
	Reason      string              `bson:"reason" json:"reason"`
	Status      AuthorizationStatus `bson:"status" json:"status"`
	UserID      string              `bson:"userId" json:"userId"`
	ApprovedBy  string              `bson:"approvedBy" json:"approvedBy"`
	StartDate   time.Time           `bson:"startDate" json:"startDate"`
	EndDate     time.Time           `bson:"endDate" json:"endDate"`
	Timestamp   time.Time           `bson:"timestamp" json:"timestamp"`
}
