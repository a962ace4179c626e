package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/jobportal/internal/client/api"
	"github.com/dmitrijs2005/jobportal/internal/client/models"
	"github.com/dmitrijs2005/jobportal/internal/client/pager"
	"github.com/dmitrijs2005/jobportal/internal/common"
	"github.com/dmitrijs2005/jobportal/internal/logging"
)

// DefaultPageSize is used when a feed is opened without a limit.
const DefaultPageSize = 20

// VacancyService browses vacancies and submits applications.
type VacancyService interface {
	// Feed returns an incremental list for the given filter. Cursor in the
	// filter is ignored; the feed manages it.
	Feed(filter api.ListParams) *pager.Feed[models.Vacancy]
	Get(ctx context.Context, id string) (*models.Vacancy, error)
	// Apply loads the document from source (a local path or s3://bucket/key)
	// and submits it to the vacancy.
	Apply(ctx context.Context, vacancyID, source, coverLetter string) error
	Public(ctx context.Context, p api.PublicListParams) ([]models.PublicVacancy, error)
	PublicBySlug(ctx context.Context, slug string) (*models.PublicVacancy, error)
}

// VacancyEndpoints is the subset of api.VacanciesAPI used by the service.
type VacancyEndpoints interface {
	List(ctx context.Context, p api.ListParams) (api.VacancyPage, error)
	Get(ctx context.Context, id string) (*models.Vacancy, error)
	Apply(ctx context.Context, r api.ApplyRequest) error
	ListPublic(ctx context.Context, p api.PublicListParams) ([]models.PublicVacancy, error)
	GetPublicBySlug(ctx context.Context, slug string) (*models.PublicVacancy, error)
}

type DocumentLoader interface {
	Load(ctx context.Context, src string) (models.Document, error)
}

type vacancyService struct {
	endpoints VacancyEndpoints
	documents DocumentLoader
	logger    logging.Logger
}

func NewVacancyService(endpoints VacancyEndpoints, documents DocumentLoader, logger logging.Logger) VacancyService {
	return &vacancyService{endpoints: endpoints, documents: documents, logger: logger}
}

func (s *vacancyService) Feed(filter api.ListParams) *pager.Feed[models.Vacancy] {
	if filter.Limit <= 0 {
		filter.Limit = DefaultPageSize
	}
	fetch := func(ctx context.Context, cursor string) (pager.Page[models.Vacancy], error) {
		p := filter
		p.Cursor = cursor
		page, err := s.endpoints.List(ctx, p)
		if err != nil {
			return pager.Page[models.Vacancy]{}, fmt.Errorf("list vacancies: %w", err)
		}
		return pager.Page[models.Vacancy]{Items: page.Vacancies, NextCursor: page.NextCursor}, nil
	}
	return pager.New(fetch, func(v models.Vacancy) string { return v.ID })
}

func (s *vacancyService) Get(ctx context.Context, id string) (*models.Vacancy, error) {
	if err := required("vacancy id", id); err != nil {
		return nil, err
	}
	v, err := s.endpoints.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get vacancy %s: %w", id, err)
	}
	return v, nil
}

func (s *vacancyService) Apply(ctx context.Context, vacancyID, source, coverLetter string) error {
	if err := required("vacancy id", vacancyID); err != nil {
		return err
	}
	if err := required("document", source); err != nil {
		return err
	}

	doc, err := s.documents.Load(ctx, source)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	err = s.endpoints.Apply(ctx, api.ApplyRequest{VacancyID: vacancyID, Document: doc, CoverLetter: coverLetter})
	if err != nil {
		return fmt.Errorf("apply to %s: %w", vacancyID, err)
	}

	s.logger.Info(ctx, "application submitted", "vacancy_id", vacancyID, "document", doc.Name, "size", len(doc.Data))
	return nil
}

func (s *vacancyService) Public(ctx context.Context, p api.PublicListParams) ([]models.PublicVacancy, error) {
	items, err := s.endpoints.ListPublic(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("list public vacancies: %w", err)
	}
	return items, nil
}

// PublicBySlug returns common.ErrorNotFound when the backend has no such
// vacancy.
func (s *vacancyService) PublicBySlug(ctx context.Context, slug string) (*models.PublicVacancy, error) {
	if err := required("slug", slug); err != nil {
		return nil, err
	}
	v, err := s.endpoints.GetPublicBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get public vacancy %s: %w", slug, err)
	}
	if v == nil {
		return nil, fmt.Errorf("public vacancy %s: %w", slug, common.ErrorNotFound)
	}
	return v, nil
}
