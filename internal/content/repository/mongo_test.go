package repository

import (
	"context"
	"testing"

	"github.com/portfolio-cms/portfolio-api/internal/models"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoRepos(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("delete of a missing project succeeds", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		repo := NewMongoProjectRepo(mt.Coll)
		require.NoError(mt, repo.Delete(context.Background(), primitive.NewObjectID().Hex()))
	})

	mt.Run("delete rejects malformed ids", func(mt *mtest.T) {
		repo := NewMongoExperienceRepo(mt.Coll)
		require.ErrorIs(mt, repo.Delete(context.Background(), "xyz"), ErrInvalidID)
	})

	mt.Run("update of a missing project is not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))
		repo := NewMongoProjectRepo(mt.Coll)
		title := "x"
		_, err := repo.Update(context.Background(), primitive.NewObjectID().Hex(), models.ProjectUpdate{Title: &title})
		require.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("skill names in stored order", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "Go"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "Rust"}},
		))
		repo := NewMongoSkillRepo(mt.Coll)
		names, err := repo.ListNames(context.Background())
		require.NoError(mt, err)
		require.Equal(mt, []string{"Go", "Rust"}, names)
	})

	mt.Run("duplicate skill surfaces ErrDuplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   1,
			Code:    11000,
			Message: "E11000 duplicate key error collection: portfolio.skills index: name_1",
		}))
		repo := NewMongoSkillRepo(mt.Coll)
		err := repo.InsertMany(context.Background(), []string{"Go", "Go"})
		require.ErrorIs(mt, err, ErrDuplicate)
	})

	mt.Run("about upsert returns the stored document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: models.AboutID},
			{Key: "title", Value: models.DefaultAboutTitle},
			{Key: "text", Value: "hello"},
		}}))
		repo := NewMongoAboutRepo(mt.Coll)
		a, err := repo.Upsert(context.Background(), "", "hello")
		require.NoError(mt, err)
		require.Equal(mt, models.DefaultAboutTitle, a.Title)
		require.Equal(mt, "hello", a.Text)
	})

	mt.Run("missing about is nil", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewMongoAboutRepo(mt.Coll)
		a, err := repo.Get(context.Background())
		require.NoError(mt, err)
		require.Nil(mt, a)
	})
}
