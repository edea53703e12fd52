package repository

import (
	"context"
	"errors"

	"github.com/portfolio-cms/portfolio-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrInvalidID = errors.New("invalid document id")
	ErrDuplicate = errors.New("duplicate key")
)

// AboutRepository stores the singleton About document.
type AboutRepository interface {
	// Get returns nil, nil when nothing was stored yet.
	Get(ctx context.Context) (*models.About, error)
	// Upsert writes the document under its fixed key. An empty title keeps the
	// stored title, or the default one when the document is created.
	Upsert(ctx context.Context, title, text string) (*models.About, error)
}

type ProjectRepository interface {
	// List returns projects newest first.
	List(ctx context.Context) ([]*models.Project, error)
	Create(ctx context.Context, p *models.Project) error
	Update(ctx context.Context, id string, upd models.ProjectUpdate) (*models.Project, error)
	// Delete does not report a missing id.
	Delete(ctx context.Context, id string) error
}

type ExperienceRepository interface {
	List(ctx context.Context) ([]*models.Experience, error)
	Create(ctx context.Context, e *models.Experience) error
	Update(ctx context.Context, id string, upd models.ExperienceUpdate) (*models.Experience, error)
	Delete(ctx context.Context, id string) error
}

type SkillRepository interface {
	// ListNames returns skill names in insertion order.
	ListNames(ctx context.Context) ([]string, error)
	DeleteAll(ctx context.Context) error
	// InsertMany inserts in order and stops at the first duplicate (ErrDuplicate).
	InsertMany(ctx context.Context, names []string) error
}

type SubmissionRepository interface {
	Create(ctx context.Context, s *models.Submission) error
	// List returns submissions newest first by date.
	List(ctx context.Context) ([]*models.Submission, error)
}

// Store groups the per-entity repositories handed to the content service.
type Store struct {
	About       AboutRepository
	Projects    ProjectRepository
	Experience  ExperienceRepository
	Skills      SkillRepository
	Submissions SubmissionRepository
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
