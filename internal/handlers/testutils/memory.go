package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"talenthub/db"
	"talenthub/models"

	"github.com/google/uuid"
)

// MemoryStorage: хранилище в памяти с тем же поведением и ошибками,
// что у db.Storage. Потокобезопасно.
type MemoryStorage struct {
	mu   sync.Mutex
	jobs memoryCollection
	bids memoryCollection
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

type memoryRecord struct {
	id  string
	doc models.Document
}

// memoryCollection хранит записи в порядке вставки.
type memoryCollection struct {
	records []memoryRecord
}

func (c *memoryCollection) index(id string) int {
	for i, rec := range c.records {
		if rec.id == id {
			return i
		}
	}
	return -1
}

func (c *memoryCollection) insert(doc models.Document) (string, error) {
	body, err := clone(doc)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	if raw, ok := body[models.IDField]; ok {
		s, _ := raw.(string)
		parsed, err := uuid.Parse(s)
		if err != nil {
			return "", fmt.Errorf("%w: %v", db.ErrInvalidID, raw)
		}
		id = parsed.String()
		delete(body, models.IDField)
	}

	if c.index(id) >= 0 {
		return "", db.ErrDuplicateID
	}
	c.records = append(c.records, memoryRecord{id: id, doc: body})
	return id, nil
}

func (c *memoryCollection) set(id uuid.UUID, fields models.Document, upsert bool) (models.UpdateResult, error) {
	fields, err := clone(fields)
	if err != nil {
		return models.UpdateResult{}, err
	}

	result := models.UpdateResult{Acknowledged: true}
	i := c.index(id.String())
	if i < 0 {
		if !upsert {
			return result, nil
		}
		upserted := id.String()
		c.records = append(c.records, memoryRecord{id: upserted, doc: fields})
		result.UpsertedCount = 1
		result.UpsertedID = &upserted
		return result, nil
	}

	result.MatchedCount = 1
	doc := c.records[i].doc
	for k, v := range fields {
		if old, ok := doc[k]; !ok || !reflect.DeepEqual(old, v) {
			result.ModifiedCount = 1
		}
		doc[k] = v
	}
	return result, nil
}

func (c *memoryCollection) filter(match func(models.Document) bool) []memoryRecord {
	var out []memoryRecord
	for _, rec := range c.records {
		if match(rec.doc) {
			out = append(out, rec)
		}
	}
	return out
}

func (s *MemoryStorage) ListJobs(_ context.Context, filter models.JobFilter, page models.Page) (models.JobList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := s.jobs.filter(func(doc models.Document) bool {
		if filter.Category != "" && text(doc["category"]) != filter.Category {
			return false
		}
		if filter.OwnerEmail != "" && text(path(doc, "clientInfo", "email")) != filter.OwnerEmail {
			return false
		}
		return true
	})

	list := models.JobList{TotalCount: int64(len(matched)), Result: []models.Job{}}
	start := page.Offset()
	for i := start; i < len(matched) && i-start < page.Size; i++ {
		doc, _ := clone(matched[i].doc)
		list.Result = append(list.Result, models.Job{ID: matched[i].id, Data: doc})
	}
	return list, nil
}

func (s *MemoryStorage) GetJob(_ context.Context, id string) (models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.jobs.index(id)
	if i < 0 {
		return models.Job{}, fmt.Errorf("%w: %s", db.ErrJobNotFound, id)
	}
	doc, err := clone(s.jobs.records[i].doc)
	if err != nil {
		return models.Job{}, err
	}
	return models.Job{ID: id, Data: doc}, nil
}

func (s *MemoryStorage) CreateJob(_ context.Context, job models.Document) (models.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.jobs.insert(job)
	if err != nil {
		return models.InsertResult{}, err
	}
	return models.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (s *MemoryStorage) UpdateJob(_ context.Context, id string, update models.JobUpdate) (models.UpdateResult, error) {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("%w: %s", db.ErrInvalidID, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs.set(jobID, update.Fields(), true)
}

func (s *MemoryStorage) DeleteJob(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.jobs.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", db.ErrJobNotFound, id)
	}
	s.jobs.records = append(s.jobs.records[:i], s.jobs.records[i+1:]...)
	return nil
}

func (s *MemoryStorage) CreateBid(_ context.Context, bid models.Document) (models.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.bids.insert(bid)
	if err != nil {
		return models.InsertResult{}, err
	}
	return models.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (s *MemoryStorage) ListBids(_ context.Context, filter models.BidFilter) ([]models.Bid, error) {
	var field, email string
	switch {
	case filter.BidderEmail != "":
		field, email = "userInfo", filter.BidderEmail
	case filter.OwnerEmail != "":
		field, email = "clientInfo", filter.OwnerEmail
	default:
		return nil, db.ErrNoBidFilter
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bids := []models.Bid{}
	for _, rec := range s.bids.filter(func(doc models.Document) bool {
		return text(path(doc, field, "email")) == email
	}) {
		doc, _ := clone(rec.doc)
		bids = append(bids, models.Bid{ID: rec.id, Data: doc})
	}
	return bids, nil
}

func (s *MemoryStorage) UpdateBidStatus(_ context.Context, id string, status any) (models.UpdateResult, error) {
	bidID, err := uuid.Parse(id)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("%w: %s", db.ErrInvalidID, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bids.set(bidID, models.Document{"status": status}, false)
}

// clone копирует doc через JSON, как это делает база.
func clone(doc models.Document) (models.Document, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	out := models.Document{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func path(doc models.Document, keys ...string) any {
	var cur any = map[string]any(doc)
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[k]
	}
	return cur
}

// text приводит значение к строке, как оператор ->> в PostgreSQL.
func text(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		raw, _ := json.Marshal(v)
		return string(raw)
	}
}
