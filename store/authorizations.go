package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/permauto/backend/models"
	"github.com/permauto/backend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// AuthorizationFilter fields are ANDed; zero values mean "no constraint".
// Company matches case- and accent-insensitively on the stored company key.
type AuthorizationFilter struct {
	Status  string
	UserID  string
	Company string
}

// AuthorizationUpdate carries the full-replace update of the mutable fields.
// ApprovedBy is the one partial field: nil leaves the stored value alone.
type AuthorizationUpdate struct {
	CompanyName string
	RUC         string
	Reason      string
	UserID      string
	Status      models.AuthorizationStatus
	StartDate   time.Time
	EndDate     time.Time
	ApprovedBy  *string
}

type Authorizations interface {
	Insert(ctx context.Context, a *models.Authorization) error
	// List returns matching records, newest first by creation timestamp.
	List(ctx context.Context, f AuthorizationFilter) ([]models.Authorization, error)
	FindByID(ctx context.Context, id string) (*models.Authorization, error)
	Update(ctx context.Context, id string, upd AuthorizationUpdate) (*models.Authorization, error)
	Delete(ctx context.Context, id string) error
}

type MongoAuthorizations struct {
	col *mongo.Collection
}

func NewAuthorizations(col *mongo.Collection) *MongoAuthorizations {
	return &MongoAuthorizations{col: col}
}

func (s *MongoAuthorizations) Insert(ctx context.Context, a *models.Authorization) error {
	if a.ID.IsZero() {
		a.ID = bson.NewObjectID()
	}

	doc := bson.M{
		"_id":         a.ID,
		"companyName": a.CompanyName,
		"companyKey":  utils.NormalizeCompanyKey(a.CompanyName),
		"ruc":         a.RUC,
		"reason":      a.Reason,
		"status":      a.Status,
		"userId":      a.UserID,
		"approvedBy":  a.ApprovedBy,
		"startDate":   a.StartDate,
		"endDate":     a.EndDate,
		"timestamp":   a.Timestamp,
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert authorization: %w", err)
	}
	return nil
}

func (s *MongoAuthorizations) List(ctx context.Context, f AuthorizationFilter) ([]models.Authorization, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.UserID != "" {
		filter["userId"] = f.UserID
	}
	if f.Company != "" {
		filter["companyKey"] = bson.M{"$regex": utils.NormalizeCompanyKey(f.Company)}
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list authorizations: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]models.Authorization, 0)
	for cursor.Next(ctx) {
		var a models.Authorization
		if err := cursor.Decode(&a); err != nil {
			return nil, fmt.Errorf("decode authorization: %w", err)
		}
		items = append(items, a)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list authorizations: %w", err)
	}
	return items, nil
}

func (s *MongoAuthorizations) FindByID(ctx context.Context, id string) (*models.Authorization, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var a models.Authorization
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find authorization: %w", err)
	}
	return &a, nil
}

func (s *MongoAuthorizations) Update(ctx context.Context, id string, upd AuthorizationUpdate) (*models.Authorization, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	set := bson.M{
		"companyName": upd.CompanyName,
		"companyKey":  utils.NormalizeCompanyKey(upd.CompanyName),
		"ruc":         upd.RUC,
		"reason":      upd.Reason,
		"status":      upd.Status,
		"userId":      upd.UserID,
		"startDate":   upd.StartDate,
		"endDate":     upd.EndDate,
	}
	if upd.ApprovedBy != nil {
		set["approvedBy"] = *upd.ApprovedBy
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var a models.Authorization
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update authorization: %w", err)
	}
	return &a, nil
}

func (s *MongoAuthorizations) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete authorization: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
