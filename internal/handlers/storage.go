package handlers

import (
	"context"

	"talenthub/models"
)

//go:generate mockgen -source=storage.go -destination=mocks/storage_mock.go -package=mocks

// StorageInterface описывает всё, что нужно хендлерам от хранилища. На один
// запрос приходится не больше одного вызова.
type StorageInterface interface {
	ListJobs(ctx context.Context, filter models.JobFilter, page models.Page) (models.JobList, error)
	GetJob(ctx context.Context, id string) (models.Job, error)
	CreateJob(ctx context.Context, job models.Document) (models.InsertResult, error)
	UpdateJob(ctx context.Context, id string, update models.JobUpdate) (models.UpdateResult, error)
	DeleteJob(ctx context.Context, id string) error

	CreateBid(ctx context.Context, bid models.Document) (models.InsertResult, error)
	ListBids(ctx context.Context, filter models.BidFilter) ([]models.Bid, error)
	UpdateBidStatus(ctx context.Context, id string, status any) (models.UpdateResult, error)
}
