package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/portfolio-cms/portfolio-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewMemoryStore returns a Store kept in process memory. It backs the unit tests
// and local runs without a database; ordering and duplicate rules match Mongo.
func NewMemoryStore() *Store {
	return &Store{
		About:       &MemoryAboutRepo{},
		Projects:    &MemoryProjectRepo{},
		Experience:  &MemoryExperienceRepo{},
		Skills:      &MemorySkillRepo{},
		Submissions: &MemorySubmissionRepo{},
	}
}

type MemoryAboutRepo struct {
	mu    sync.RWMutex
	about *models.About
	// Writes counts created documents; tests use it to check the singleton.
	Writes int
}

func (m *MemoryAboutRepo) Get(ctx context.Context) (*models.About, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.about == nil {
		return nil, nil
	}
	cp := *m.about
	return &cp, nil
}

func (m *MemoryAboutRepo) Upsert(ctx context.Context, title, text string) (*models.About, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.about == nil {
		m.about = &models.About{ID: models.AboutID, Title: models.DefaultAboutTitle}
		m.Writes++
	}
	if title != "" {
		m.about.Title = title
	}
	m.about.Text = text
	m.about.UpdatedAt = time.Now().UTC()
	cp := *m.about
	return &cp, nil
}

// Count reports how many About documents exist (0 or 1).
func (m *MemoryAboutRepo) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.about == nil {
		return 0
	}
	return 1
}

type MemoryProjectRepo struct {
	mu    sync.RWMutex
	items []*models.Project
}

func (m *MemoryProjectRepo) List(ctx context.Context) ([]*models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Project, 0, len(m.items))
	for _, p := range m.items {
		cp := *p
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryProjectRepo) Create(ctx context.Context, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	cp := *p
	m.items = append(m.items, &cp)
	return nil
}

func (m *MemoryProjectRepo) Update(ctx context.Context, id string, upd models.ProjectUpdate) (*models.Project, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if p.ID != oid {
			continue
		}
		assign(&p.Title, upd.Title)
		assign(&p.Description, upd.Description)
		assign(&p.Tech, upd.Tech)
		assign(&p.Link, upd.Link)
		assign(&p.Image, upd.Image)
		cp := *p
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryProjectRepo) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.items {
		if p.ID == oid {
			m.items = append(m.items[:i], m.items[i+1:]...)
			break
		}
	}
	return nil
}

type MemoryExperienceRepo struct {
	mu    sync.RWMutex
	items []*models.Experience
}

func (m *MemoryExperienceRepo) List(ctx context.Context) ([]*models.Experience, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Experience, 0, len(m.items))
	for _, e := range m.items {
		cp := *e
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryExperienceRepo) Create(ctx context.Context, e *models.Experience) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	cp := *e
	m.items = append(m.items, &cp)
	return nil
}

func (m *MemoryExperienceRepo) Update(ctx context.Context, id string, upd models.ExperienceUpdate) (*models.Experience, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.items {
		if e.ID != oid {
			continue
		}
		assign(&e.Role, upd.Role)
		assign(&e.Company, upd.Company)
		assign(&e.Duration, upd.Duration)
		assign(&e.Description, upd.Description)
		cp := *e
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryExperienceRepo) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.items {
		if e.ID == oid {
			m.items = append(m.items[:i], m.items[i+1:]...)
			break
		}
	}
	return nil
}

type MemorySkillRepo struct {
	mu    sync.RWMutex
	names []string
}

func (m *MemorySkillRepo) ListNames(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string{}, m.names...), nil
}

func (m *MemorySkillRepo) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names = nil
	return nil
}

func (m *MemorySkillRepo) InsertMany(ctx context.Context, names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range names {
		for _, existing := range m.names {
			if existing == n {
				return ErrDuplicate
			}
		}
		m.names = append(m.names, n)
	}
	return nil
}

type MemorySubmissionRepo struct {
	mu    sync.RWMutex
	items []*models.Submission
}

func (m *MemorySubmissionRepo) Create(ctx context.Context, s *models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	if s.Date.IsZero() {
		s.Date = time.Now().UTC()
	}
	cp := *s
	m.items = append(m.items, &cp)
	return nil
}

func (m *MemorySubmissionRepo) List(ctx context.Context) ([]*models.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Submission, 0, len(m.items))
	for _, s := range m.items {
		cp := *s
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func assign(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
