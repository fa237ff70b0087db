package db

import (
	"context"
	"fmt"

	"talenthub/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const (
	bidBidderEmailPath = "doc->'userInfo'->>'email'"
	bidOwnerEmailPath  = "doc->'clientInfo'->>'email'"
)

// CreateBid сохраняет отклик как есть. Существование заказа не проверяется.
func (s *Storage) CreateBid(ctx context.Context, bid models.Document) (models.InsertResult, error) {
	id, err := s.bids.insert(ctx, bid)
	if err != nil {
		return models.InsertResult{}, err
	}
	return models.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// ListBids возвращает отклики исполнителя, иначе отклики на заказы клиента.
func (s *Storage) ListBids(ctx context.Context, filter models.BidFilter) ([]models.Bid, error) {
	var where sq.Eq
	switch {
	case filter.BidderEmail != "":
		where = sq.Eq{bidBidderEmailPath: filter.BidderEmail}
	case filter.OwnerEmail != "":
		where = sq.Eq{bidOwnerEmailPath: filter.OwnerEmail}
	default:
		return nil, ErrNoBidFilter
	}

	rows, err := s.bids.find(ctx, where, nil)
	if err != nil {
		return nil, err
	}

	bids := make([]models.Bid, 0, len(rows))
	for _, row := range rows {
		doc, err := row.document()
		if err != nil {
			return nil, err
		}
		bids = append(bids, models.Bid{ID: row.ID, Data: doc})
	}
	return bids, nil
}

// UpdateBidStatus меняет только status. Неизвестный id ничего не находит,
// это не ошибка.
func (s *Storage) UpdateBidStatus(ctx context.Context, id string, status any) (models.UpdateResult, error) {
	bidID, err := uuid.Parse(id)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	return s.bids.set(ctx, bidID, models.Document{"status": status}, false)
}
