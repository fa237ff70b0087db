package models

import (
	"encoding/json"
	"math"
)

// IDField: ключ идентификатора записи в JSON.
const IDField = "_id"

// Document: запись без схемы, в том виде, в каком её прислал клиент.
type Document map[string]any

// Job (Заказ). Сервер владеет только ID, остальное прислал клиент.
type Job struct {
	ID   string
	Data Document
}

func (j Job) MarshalJSON() ([]byte, error) {
	return json.Marshal(withID(j.ID, j.Data))
}

// Bid (Отклик) на заказ. jobId не сверяется с существующими заказами.
type Bid struct {
	ID   string
	Data Document
}

func (b Bid) MarshalJSON() ([]byte, error) {
	return json.Marshal(withID(b.ID, b.Data))
}

func withID(id string, data Document) Document {
	out := make(Document, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	out[IDField] = id
	return out
}

// JobUpdate: пять полей, которые можно обновить. Отсутствующие пишутся как null.
type JobUpdate struct {
	JobTitle       any `json:"jobTitle"`
	Deadline       any `json:"deadline"`
	JobDescription any `json:"jobDescription"`
	Category       any `json:"category"`
	MaxPrice       any `json:"maxPrice"`
}

func (u JobUpdate) Fields() Document {
	return Document{
		"jobTitle":       u.JobTitle,
		"deadline":       u.Deadline,
		"jobDescription": u.JobDescription,
		"category":       u.Category,
		"maxPrice":       u.MaxPrice,
	}
}

// BidStatusUpdate: тело запроса смены статуса отклика.
type BidStatusUpdate struct {
	Status any `json:"status"`
}

// JobFilter: пустые поля не фильтруют.
type JobFilter struct {
	Category   string
	OwnerEmail string
}

// BidFilter выбирает отклики по исполнителю или по владельцу заказа.
// Если заданы оба, приоритет у BidderEmail.
type BidFilter struct {
	BidderEmail string
	OwnerEmail  string
}

// Page: номер страницы с единицы и её размер.
type Page struct {
	Number int
	Size   int
}

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
)

// Offset: сколько записей предшествует странице. При переполнении
// возвращает math.MaxInt.
func (p Page) Offset() int {
	if p.Number <= 1 || p.Size <= 0 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Size
}

// JobList: страница заказов и общее число совпадений.
type JobList struct {
	TotalCount int64 `json:"totalCount"`
	Result     []Job `json:"result"`
}

type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult: итог обновления. UpsertedID задан, только если запись создана.
type UpdateResult struct {
	Acknowledged  bool    `json:"acknowledged"`
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedCount int64   `json:"upsertedCount"`
	UpsertedID    *string `json:"upsertedId"`
}
