//go:build integration

package repos

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/EyalPoly/attendance-manager/models"
)

// Needs a running Mongo; point MONGODB_URI at it and run with -tags integration.
func setupRepo(t *testing.T) (*MongoAttendanceRepo, context.Context) {
	t.Helper()

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("attendance_manager_test")
	repo := NewMongoAttendanceRepo(db)
	require.NoError(t, repo.EnsureIndexes(ctx))
	t.Cleanup(func() { _, _ = repo.coll.DeleteMany(context.Background(), keyFilter("it-user", 2024, 3)) })

	return repo, ctx
}

func sampleRecord() *models.AttendanceRecord {
	return &models.AttendanceRecord{
		UserID: "it-user",
		Year:   2024,
		Month:  3,
		Data: map[string]models.DaySessionRecord{
			"1": {
				Workplace: "Office", StartHour: "09:00", EndHour: "17:00",
				FrontalHours: 8, IndividualHours: 2, StayingHours: 1,
			},
		},
	}
}

func TestMongoRepo_Lifecycle(t *testing.T) {
	repo, ctx := setupRepo(t)

	rec, err := repo.FindOne(ctx, "it-user", 2024, 3)
	require.NoError(t, err)
	assert.Nil(t, rec)

	created, err := repo.Insert(ctx, sampleRecord())
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())

	found, err := repo.FindOne(ctx, "it-user", 2024, 3)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.Data, found.Data)

	replacement := map[string]models.DaySessionRecord{
		"2": {Workplace: "Home", IsAbsence: true, StartHour: "00:00", EndHour: "00:00"},
	}
	updated, err := repo.ReplaceData(ctx, "it-user", 2024, 3, replacement)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, replacement, updated.Data)
	assert.NotContains(t, updated.Data, "1")

	deleted, err := repo.Delete(ctx, "it-user", 2024, 3)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, replacement, deleted.Data)

	gone, err := repo.FindOne(ctx, "it-user", 2024, 3)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestMongoRepo_UniqueIndex(t *testing.T) {
	repo, ctx := setupRepo(t)

	_, err := repo.Insert(ctx, sampleRecord())
	require.NoError(t, err)

	_, err = repo.Insert(ctx, sampleRecord())
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestMongoRepo_AbsentUpdateAndDelete(t *testing.T) {
	repo, ctx := setupRepo(t)

	rec, err := repo.ReplaceData(ctx, "it-user", 2024, 3, nil)
	require.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = repo.Delete(ctx, "it-user", 2024, 3)
	require.NoError(t, err)
	assert.Nil(t, rec)
}
