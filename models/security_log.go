package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type SecurityLogType string

const (
	LogEntry SecurityLogType = "entry"
	LogExit  SecurityLogType = "exit"
	LogOther SecurityLogType = "other"
)

// SecurityLog entries are written by the gate hardware integration and are
// read-only here.
type SecurityLog struct {
	ID        bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Type      SecurityLogType `bson:"type" json:"type"`
	UserID    string          `bson:"userId,omitempty" json:"userId,omitempty"`
	Timestamp time.Time       `bson:"timestamp" json:"timestamp"`
	Details   string          `bson:"details,omitempty" json:"details,omitempty"`
	Location  string          `bson:"location,omitempty" json:"location,omitempty"`
}
