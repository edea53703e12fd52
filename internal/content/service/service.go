package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/portfolio-cms/portfolio-api/internal/cache"
	"github.com/portfolio-cms/portfolio-api/internal/content/repository"
	"github.com/portfolio-cms/portfolio-api/internal/models"
	"github.com/portfolio-cms/portfolio-api/pkg/logger"
	"github.com/portfolio-cms/portfolio-api/pkg/metrics"
)

// Service implements the portfolio content operations on top of a repository.Store.
// Every mutation of public content drops the cached aggregate read.
type Service struct {
	store *repository.Store
	cache cache.ContentCache
}

// New returns a Service. cache may be nil.
func New(store *repository.Store, c cache.ContentCache) *Service {
	return &Service{store: store, cache: c}
}

// GetContent aggregates about, projects, experience and skills. Any failing
// sub-read fails the whole call.
func (s *Service) GetContent(ctx context.Context) (*models.Content, error) {
	var gen int64
	if s.cache != nil {
		cached, g, err := s.cache.Get(ctx)
		gen = g
		switch {
		case err != nil:
			logger.Warnf("content cache read failed: %v", err)
		case cached != nil:
			metrics.ContentCache.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.ContentCache.WithLabelValues("miss").Inc()
		}
	}

	about, err := s.store.About.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch about: %w", err)
	}
	if about == nil {
		about = models.DefaultAbout()
	}
	projects, err := s.store.Projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}
	experience, err := s.store.Experience.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch experience: %w", err)
	}
	skills, err := s.store.Skills.ListNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch skills: %w", err)
	}
	out := &models.Content{About: about, Projects: projects, Experience: experience, Skills: skills}

	if s.cache != nil {
		if err := s.cache.Set(ctx, out, gen); err != nil {
			logger.Warnf("content cache write failed: %v", err)
		}
	}
	return out, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warnf("content cache invalidate failed: %v", err)
	}
}

// UpdateAbout upserts the singleton About document.
func (s *Service) UpdateAbout(ctx context.Context, title, text string) (*models.About, error) {
	a, err := s.store.About.Upsert(ctx, strings.TrimSpace(title), text)
	metrics.ObserveWrite("about", "upsert", err)
	if err != nil {
		return nil, fmt.Errorf("update about: %w", err)
	}
	s.invalidate(ctx)
	return a, nil
}

// ReplaceSkills deletes every skill and inserts names in order. The two steps
// are not atomic: a concurrent read can observe an empty or partial set.
func (s *Service) ReplaceSkills(ctx context.Context, names []string) ([]string, error) {
	clean := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			clean = append(clean, n)
		}
	}
	// the stored set changes even when the insert fails half way
	defer s.invalidate(ctx)

	err := s.store.Skills.DeleteAll(ctx)
	if err == nil {
		err = s.store.Skills.InsertMany(ctx, clean)
	}
	metrics.ObserveWrite("skills", "replace", err)
	if err != nil {
		return nil, fmt.Errorf("replace skills: %w", err)
	}
	out, err := s.store.Skills.ListNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return out, nil
}

func (s *Service) CreateProject(ctx context.Context, p *models.Project) error {
	err := s.store.Projects.Create(ctx, p)
	metrics.ObserveWrite("project", "create", err)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) UpdateProject(ctx context.Context, id string, upd models.ProjectUpdate) (*models.Project, error) {
	p, err := s.store.Projects.Update(ctx, id, upd)
	metrics.ObserveWrite("project", "update", err)
	if err != nil {
		return nil, fmt.Errorf("update project %s: %w", id, err)
	}
	s.invalidate(ctx)
	return p, nil
}

// DeleteProject succeeds for ids that do not exist.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	err := s.store.Projects.Delete(ctx, id)
	metrics.ObserveWrite("project", "delete", err)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) CreateExperience(ctx context.Context, e *models.Experience) error {
	err := s.store.Experience.Create(ctx, e)
	metrics.ObserveWrite("experience", "create", err)
	if err != nil {
		return fmt.Errorf("create experience: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) UpdateExperience(ctx context.Context, id string, upd models.ExperienceUpdate) (*models.Experience, error) {
	e, err := s.store.Experience.Update(ctx, id, upd)
	metrics.ObserveWrite("experience", "update", err)
	if err != nil {
		return nil, fmt.Errorf("update experience %s: %w", id, err)
	}
	s.invalidate(ctx)
	return e, nil
}

// DeleteExperience succeeds for ids that do not exist.
func (s *Service) DeleteExperience(ctx context.Context, id string) error {
	err := s.store.Experience.Delete(ctx, id)
	metrics.ObserveWrite("experience", "delete", err)
	if err != nil {
		return fmt.Errorf("delete experience %s: %w", id, err)
	}
	s.invalidate(ctx)
	return nil
}

// SubmitContact stores a contact message, stamping the date when missing.
func (s *Service) SubmitContact(ctx context.Context, sub *models.Submission) error {
	if sub.Date.IsZero() {
		sub.Date = time.Now().UTC()
	}
	err := s.store.Submissions.Create(ctx, sub)
	metrics.ObserveWrite("submission", "create", err)
	if err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	return nil
}

// ListSubmissions returns contact messages newest first.
func (s *Service) ListSubmissions(ctx context.Context) ([]*models.Submission, error) {
	out, err := s.store.Submissions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return out, nil
}
