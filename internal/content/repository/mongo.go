package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/portfolio-cms/portfolio-api/internal/database"
	"github.com/portfolio-cms/portfolio-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongoStore returns a Store whose repositories use the collections of db.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		About:       NewMongoAboutRepo(db.Collection(database.AboutCollection)),
		Projects:    NewMongoProjectRepo(db.Collection(database.ProjectsCollection)),
		Experience:  NewMongoExperienceRepo(db.Collection(database.ExperienceCollection)),
		Skills:      NewMongoSkillRepo(db.Collection(database.SkillsCollection)),
		Submissions: NewMongoSubmissionRepo(db.Collection(database.SubmissionsCollection)),
	}
}

func findAll[T any](ctx context.Context, col *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]*T, error) {
	cur, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*T{}
	for cur.Next(ctx) {
		var v T
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}

// updateByID applies $set and returns the updated document. With nothing to set
// the current document is returned unchanged.
func updateByID[T any](ctx context.Context, col *mongo.Collection, id string, set bson.M) (*T, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var out T
	var res *mongo.SingleResult
	if len(set) == 0 {
		res = col.FindOne(ctx, bson.M{"_id": oid})
	} else {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		res = col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts)
	}
	if err := res.Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func deleteByID(ctx context.Context, col *mongo.Collection, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	// DeletedCount == 0 is not an error
	_, err = col.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func setIfPresent(set bson.M, key string, v *string) {
	if v != nil {
		set[key] = *v
	}
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

// MongoAboutRepo keeps the About document under the fixed _id models.AboutID.
type MongoAboutRepo struct {
	col *mongo.Collection
}

func NewMongoAboutRepo(col *mongo.Collection) *MongoAboutRepo {
	return &MongoAboutRepo{col: col}
}

func (r *MongoAboutRepo) Get(ctx context.Context) (*models.About, error) {
	var a models.About
	if err := r.col.FindOne(ctx, bson.M{"_id": models.AboutID}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *MongoAboutRepo) Upsert(ctx context.Context, title, text string) (*models.About, error) {
	set := bson.M{"text": text, "updatedAt": time.Now().UTC()}
	update := bson.M{"$set": set}
	if title != "" {
		set["title"] = title
	} else {
		update["$setOnInsert"] = bson.M{"title": models.DefaultAboutTitle}
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var a models.About
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": models.AboutID}, update, opts).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

type MongoProjectRepo struct {
	col *mongo.Collection
}

func NewMongoProjectRepo(col *mongo.Collection) *MongoProjectRepo {
	return &MongoProjectRepo{col: col}
}

func (r *MongoProjectRepo) List(ctx context.Context) ([]*models.Project, error) {
	return findAll[models.Project](ctx, r.col, bson.M{}, newestFirst)
}

func (r *MongoProjectRepo) Create(ctx context.Context, p *models.Project) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, p)
	return err
}

func (r *MongoProjectRepo) Update(ctx context.Context, id string, upd models.ProjectUpdate) (*models.Project, error) {
	set := bson.M{}
	setIfPresent(set, "title", upd.Title)
	setIfPresent(set, "description", upd.Description)
	setIfPresent(set, "tech", upd.Tech)
	setIfPresent(set, "link", upd.Link)
	setIfPresent(set, "image", upd.Image)
	return updateByID[models.Project](ctx, r.col, id, set)
}

func (r *MongoProjectRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}

type MongoExperienceRepo struct {
	col *mongo.Collection
}

func NewMongoExperienceRepo(col *mongo.Collection) *MongoExperienceRepo {
	return &MongoExperienceRepo{col: col}
}

func (r *MongoExperienceRepo) List(ctx context.Context) ([]*models.Experience, error) {
	return findAll[models.Experience](ctx, r.col, bson.M{}, newestFirst)
}

func (r *MongoExperienceRepo) Create(ctx context.Context, e *models.Experience) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, e)
	return err
}

func (r *MongoExperienceRepo) Update(ctx context.Context, id string, upd models.ExperienceUpdate) (*models.Experience, error) {
	set := bson.M{}
	setIfPresent(set, "role", upd.Role)
	setIfPresent(set, "company", upd.Company)
	setIfPresent(set, "duration", upd.Duration)
	setIfPresent(set, "description", upd.Description)
	return updateByID[models.Experience](ctx, r.col, id, set)
}

func (r *MongoExperienceRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}

// MongoSkillRepo relies on the unique index on "name" (database.EnsureIndexes).
type MongoSkillRepo struct {
	col *mongo.Collection
}

func NewMongoSkillRepo(col *mongo.Collection) *MongoSkillRepo {
	return &MongoSkillRepo{col: col}
}

func (r *MongoSkillRepo) ListNames(ctx context.Context) ([]string, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	skills, err := findAll[models.Skill](ctx, r.col, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return names, nil
}

func (r *MongoSkillRepo) DeleteAll(ctx context.Context) error {
	_, err := r.col.DeleteMany(ctx, bson.M{})
	return err
}

func (r *MongoSkillRepo) InsertMany(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(names))
	for _, n := range names {
		docs = append(docs, models.Skill{ID: primitive.NewObjectID(), Name: n})
	}
	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return err
	}
	return nil
}

type MongoSubmissionRepo struct {
	col *mongo.Collection
}

func NewMongoSubmissionRepo(col *mongo.Collection) *MongoSubmissionRepo {
	return &MongoSubmissionRepo{col: col}
}

func (r *MongoSubmissionRepo) Create(ctx context.Context, s *models.Submission) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	if s.Date.IsZero() {
		s.Date = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *MongoSubmissionRepo) List(ctx context.Context) ([]*models.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	return findAll[models.Submission](ctx, r.col, bson.M{}, opts)
}
