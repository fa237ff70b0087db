package db

import (
	"context"
	"fmt"

	"talenthub/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const (
	jobCategoryPath   = "doc->>'category'"
	jobOwnerEmailPath = "doc->'clientInfo'->>'email'"
)

func jobFilter(f models.JobFilter) sq.Eq {
	where := sq.Eq{}
	if f.Category != "" {
		where[jobCategoryPath] = f.Category
	}
	if f.OwnerEmail != "" {
		where[jobOwnerEmailPath] = f.OwnerEmail
	}
	return where
}

// ListJobs возвращает страницу заказов по фильтру и общее число совпадений.
func (s *Storage) ListJobs(ctx context.Context, filter models.JobFilter, page models.Page) (models.JobList, error) {
	where := jobFilter(filter)

	total, err := s.jobs.count(ctx, where)
	if err != nil {
		return models.JobList{}, err
	}

	rows, err := s.jobs.find(ctx, where, &page)
	if err != nil {
		return models.JobList{}, err
	}

	jobs := make([]models.Job, 0, len(rows))
	for _, row := range rows {
		doc, err := row.document()
		if err != nil {
			return models.JobList{}, err
		}
		jobs = append(jobs, models.Job{ID: row.ID, Data: doc})
	}

	return models.JobList{TotalCount: total, Result: jobs}, nil
}

// GetJob ищет заказ по id. Неизвестный или некорректный id: ErrJobNotFound.
func (s *Storage) GetJob(ctx context.Context, id string) (models.Job, error) {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return models.Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	row, found, err := s.jobs.findOne(ctx, jobID)
	if err != nil {
		return models.Job{}, err
	}
	if !found {
		return models.Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	doc, err := row.document()
	if err != nil {
		return models.Job{}, err
	}
	return models.Job{ID: row.ID, Data: doc}, nil
}

// CreateJob сохраняет заказ как есть.
func (s *Storage) CreateJob(ctx context.Context, job models.Document) (models.InsertResult, error) {
	id, err := s.jobs.insert(ctx, job)
	if err != nil {
		return models.InsertResult{}, err
	}
	return models.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// UpdateJob перезаписывает пять изменяемых полей заказа. Если заказа нет,
// он создаётся только из этих полей.
func (s *Storage) UpdateJob(ctx context.Context, id string, update models.JobUpdate) (models.UpdateResult, error) {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	return s.jobs.set(ctx, jobID, update.Fields(), true)
}

// DeleteJob удаляет заказ. Если удалять нечего: ErrJobNotFound.
func (s *Storage) DeleteJob(ctx context.Context, id string) error {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	deleted, err := s.jobs.remove(ctx, jobID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return nil
}
