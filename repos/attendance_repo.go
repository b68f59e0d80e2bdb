package repos

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/EyalPoly/attendance-manager/models"
)

// ErrDuplicateKey reports an insert that hit the unique (userId, year, month)
// index, i.e. a create that lost the race against another create.
var ErrDuplicateKey = errors.New("attendance record already exists for key")

// AttendanceRepo is the record-store client consumed by the service layer.
// A nil record with a nil error means nothing is stored under the key.
type AttendanceRepo interface {
	FindOne(ctx context.Context, userID string, year, month int) (*models.AttendanceRecord, error)
	Insert(ctx context.Context, rec *models.AttendanceRecord) (*models.AttendanceRecord, error)
	ReplaceData(ctx context.Context, userID string, year, month int, data map[string]models.DaySessionRecord) (*models.AttendanceRecord, error)
	Delete(ctx context.Context, userID string, year, month int) (*models.AttendanceRecord, error)
}

type MongoAttendanceRepo struct {
	coll *mongo.Collection
}

func NewMongoAttendanceRepo(db *mongo.Database) *MongoAttendanceRepo {
	return &MongoAttendanceRepo{coll: db.Collection("attendances")}
}

// EnsureIndexes creates the unique key index. The service still pre-checks
// existence for a friendly conflict message; this index is what actually
// guarantees at most one record per key.
func (r *MongoAttendanceRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "year", Value: 1},
			{Key: "month", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func keyFilter(userID string, year, month int) bson.M {
	return bson.M{"userId": userID, "year": year, "month": month}
}

func (r *MongoAttendanceRepo) FindOne(ctx context.Context, userID string, year, month int) (*models.AttendanceRecord, error) {
	var rec models.AttendanceRecord
	err := r.coll.FindOne(ctx, keyFilter(userID, year, month)).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *MongoAttendanceRepo) Insert(ctx context.Context, rec *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	res, err := r.coll.InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicateKey
	}
	if err != nil {
		return nil, err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = id
	}
	return rec, nil
}

// ReplaceData swaps the whole data map of the record under the key and
// returns the post-update document, or nil when no record exists. It never
// upserts.
func (r *MongoAttendanceRepo) ReplaceData(ctx context.Context, userID string, year, month int, data map[string]models.DaySessionRecord) (*models.AttendanceRecord, error) {
	var rec models.AttendanceRecord
	err := r.coll.FindOneAndUpdate(ctx,
		keyFilter(userID, year, month),
		bson.M{"$set": bson.M{"data": data}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Delete removes the record under the key and returns it as it was, or nil
// when nothing was stored.
func (r *MongoAttendanceRepo) Delete(ctx context.Context, userID string, year, month int) (*models.AttendanceRecord, error) {
	var rec models.AttendanceRecord
	err := r.coll.FindOneAndDelete(ctx, keyFilter(userID, year, month)).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
