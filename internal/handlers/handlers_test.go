package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"talenthub/db"
	"talenthub/internal/auth"
	"talenthub/internal/handlers"
	"talenthub/internal/handlers/mocks"
	"talenthub/internal/handlers/testutils"
	"talenthub/internal/logger"
	"talenthub/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const jobID = "6f1c1b7e-8a53-4c1e-9a36-2d8f5b1e7c42"

func newTestHandler(t *testing.T) (*handlers.Handler, *mocks.MockStorageInterface) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStorageInterface(ctrl)

	tokens, err := auth.NewTokens("test-secret", 0)
	require.NoError(t, err)

	return handlers.NewHandler(store, tokens, logger.Nop()), store
}

func serve(t *testing.T, handler http.HandlerFunc, req *http.Request) (*http.Response, string) {
	t.Helper()
	w := httptest.NewRecorder()
	handler(w, req)

	res := w.Result()
	t.Cleanup(func() { res.Body.Close() })
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

func TestRootHandler(t *testing.T) {
	handler, _ := newTestHandler(t)

	res, body := serve(t, handler.RootHandler, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "Hello World!", body)
}

func TestGetJobsHandler(t *testing.T) {
	tests := []struct {
		name   string
		target string
		filter models.JobFilter
		page   models.Page
	}{
		{
			name:   "defaults",
			target: "/api/jobs",
			page:   models.Page{Number: 1, Size: 10},
		},
		{
			name:   "filters and page",
			target: "/api/jobs?category=dev&email=a@x.com&page=2&pageSize=5",
			filter: models.JobFilter{Category: "dev", OwnerEmail: "a@x.com"},
			page:   models.Page{Number: 2, Size: 5},
		},
		{
			name:   "invalid page values fall back",
			target: "/api/jobs?page=abc&pageSize=0",
			page:   models.Page{Number: 1, Size: 10},
		},
		{
			name:   "negative page falls back",
			target: "/api/jobs?page=-3&pageSize=7",
			page:   models.Page{Number: 1, Size: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, store := newTestHandler(t)
			store.EXPECT().ListJobs(gomock.Any(), tt.filter, tt.page).Return(models.JobList{
				TotalCount: 1,
				Result:     []models.Job{{ID: jobID, Data: models.Document{"jobTitle": "Sample Job"}}},
			}, nil)

			res, body := serve(t, handler.GetJobsHandler, httptest.NewRequest(http.MethodGet, tt.target, nil))

			require.Equal(t, http.StatusOK, res.StatusCode)
			require.Equal(t, "application/json", res.Header.Get("Content-Type"))
			require.JSONEq(t, `{"totalCount":1,"result":[{"_id":"`+jobID+`","jobTitle":"Sample Job"}]}`, body)
		})
	}
}

func TestGetJobsHandler_StoreError(t *testing.T) {
	handler, store := newTestHandler(t)
	store.EXPECT().ListJobs(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.JobList{}, errors.New("connection refused"))

	res, body := serve(t, handler.GetJobsHandler, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))

	require.Equal(t, http.StatusInternalServerError, res.StatusCode)
	require.NotContains(t, body, "connection refused")
}

func TestGetJobHandler(t *testing.T) {
	handler, store := newTestHandler(t)
	store.EXPECT().GetJob(gomock.Any(), jobID).Return(models.Job{
		ID:   jobID,
		Data: models.Document{"jobTitle": "T", "maxPrice": json.Number("100")},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/job/"+jobID, nil)
	req = testutils.WithChiURLParams(req, map[string]string{"_id": jobID})

	res, body := serve(t, handler.GetJobHandler, req)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.JSONEq(t, `{"_id":"`+jobID+`","jobTitle":"T","maxPrice":100}`, body)
}

func TestGetJobHandler_NotFound(t *testing.T) {
	handler, store := newTestHandler(t)
	store.EXPECT().GetJob(gomock.Any(), "nope").Return(models.Job{}, db.ErrJobNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/job/nope", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"_id": "nope"})

	res, body := serve(t, handler.GetJobHandler, req)

	require.Equal(t, http.StatusNotFound, res.StatusCode)
	require.Contains(t, body, "Job not found")
}

func TestCreateJobHandler(t *testing.T) {
	handler, store := newTestHandler(t)
	store.EXPECT().CreateJob(gomock.Any(), models.Document{
		"jobTitle": "T",
		"category": "dev",
		"maxPrice": json.Number("100"),
	}).Return(models.InsertResult{Acknowledged: true, InsertedID: jobID}, nil)

	reqBody := `{"jobTitle":"T","category":"dev","maxPrice":100}`
	req := httptest.NewRequest(http.MethodPost, "/api/job", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	res, body := serve(t, handler.CreateJobHandler, req)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.JSONEq(t, `{"acknowledged":true,"insertedId":"`+jobID+`"}`, body)
}

func TestCreateJobHandler_EmptyBody(t *testing.T) {
	handler, store := newTestHandler(t)
	store.EXPECT().CreateJob(gomock.Any(), models.Document{}).Return(models.InsertResult{Acknowledged: true, InsertedID: jobID}, nil)

	res, _ := serve(t, handler.CreateJobHandler, httptest.NewRequest(http.MethodPost, "/api/job", nil))

	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestCreateJobHandler_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		storeErr error
		status   int
	}{
		{name: "malformed json", body: `{"jobTitle":`, status: http.StatusBadRequest},
		{name: "not an object", body: `[1,2]`, status: http.StatusBadRequest},
		{name: "invalid client id", body: `{"_id":"x"}`, storeErr: db.ErrInvalidID, status: http.StatusBadRequest},
		{name: "duplicate id", body: `{"_id":"` + jobID + `"}`, storeErr: db.ErrDuplicateID, status: http.StatusConflict},
		{name: "store failure", body: `{}`, storeErr: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, store := newTestHandler(t)
			if tt.storeErr != nil {
				store.EXPECT().CreateJob(gomock.Any(), gomock.Any()).Return(models.InsertResult{}, tt.storeErr)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/job", strings.NewReader(tt.body))
			res, _ := serve(t, handler.CreateJobHandler, req)

			require.Equal(t, tt.status, res.StatusCode)
		})
	}
}

func TestUpdateJobHandler(t *testing.T) {
	handler, store := newTestHandler(t)
	store.EXPECT().UpdateJob(gomock.Any(), jobID, models.JobUpdate{
		JobTitle: "New",
		MaxPrice: json.Number("250"),
	}).Return(models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil)

	reqBody := `{"jobTitle":"New","maxPrice":250,"status":"ignored"}`
	req := httptest.NewRequest(http.MethodPut, "/api/job/"+jobID, strings.NewReader(reqBody))
	req = testutils.WithChiURLParams(req, map[string]string{"_id": jobID})

	res, body := serve(t, handler.UpdateJobHandler, req)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.JSONEq(t, `{"acknowledged":true,"matchedCount":1,"modifiedCount":1,"upsertedCount":0,"upsertedId":null}`, body)
}

func TestUpdateJobHandler_InvalidID(t *testing.T) {
	handler, store := newTestHandler(t)
	store.EXPECT().UpdateJob(gomock.Any(), "bad", gomock.Any()).Return(models.UpdateResult{}, db.ErrInvalidID)

	req := httptest.NewRequest(http.MethodPut, "/api/job/bad", strings.NewReader(`{}`))
	req = testutils.WithChiURLParams(req, map[string]string{"_id": "bad"})

	res, _ := serve(t, handler.UpdateJobHandler, req)

	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestDeleteJobHandler(t *testing.T) {
	handler, store := newTestHandler(t)
	store.EXPECT().DeleteJob(gomock.Any(), jobID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/job/"+jobID, nil)
	req = testutils.WithChiURLParams(req, map[string]string{"_id": jobID})

	res, body := serve(t, handler.DeleteJobHandler, req)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "Job deleted successfully", body)
}

func TestDeleteJobHandler_NotFound(t *testing.T) {
	handler, store := newTestHandler(t)
	store.EXPECT().DeleteJob(gomock.Any(), jobID).Return(db.ErrJobNotFound)

	req := httptest.NewRequest(http.MethodDelete, "/api/job/"+jobID, nil)
	req = testutils.WithChiURLParams(req, map[string]string{"_id": jobID})

	res, _ := serve(t, handler.DeleteJobHandler, req)

	require.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestCreateBidHandler(t *testing.T) {
	handler, store := newTestHandler(t)
	store.EXPECT().CreateBid(gomock.Any(), models.Document{
		"jobId":    "anything",
		"status":   "pending",
		"userInfo": map[string]any{"email": "b@y.com"},
	}).Return(models.InsertResult{Acknowledged: true, InsertedID: jobID}, nil)

	reqBody := `{"jobId":"anything","status":"pending","userInfo":{"email":"b@y.com"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/bid", strings.NewReader(reqBody))

	res, body := serve(t, handler.CreateBidHandler, req)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, body, `"insertedId":"`+jobID+`"`)
}

func TestGetBidsHandler(t *testing.T) {
	tests := []struct {
		name   string
		target string
		filter models.BidFilter
	}{
		{name: "by bidder", target: "/api/bids?userEmail=b@y.com", filter: models.BidFilter{BidderEmail: "b@y.com"}},
		{name: "by owner", target: "/api/bids?clientEmail=a@x.com", filter: models.BidFilter{OwnerEmail: "a@x.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, store := newTestHandler(t)
			store.EXPECT().ListBids(gomock.Any(), tt.filter).Return([]models.Bid{
				{ID: jobID, Data: models.Document{"status": "pending"}},
			}, nil)

			res, body := serve(t, handler.GetBidsHandler, httptest.NewRequest(http.MethodGet, tt.target, nil))

			require.Equal(t, http.StatusOK, res.StatusCode)
			require.JSONEq(t, `[{"_id":"`+jobID+`","status":"pending"}]`, body)
		})
	}
}

func TestGetBidsHandler_NoFilter(t *testing.T) {
	handler, store := newTestHandler(t)
	store.EXPECT().ListBids(gomock.Any(), models.BidFilter{}).Return(nil, db.ErrNoBidFilter)

	res, _ := serve(t, handler.GetBidsHandler, httptest.NewRequest(http.MethodGet, "/api/bids", nil))

	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestUpdateBidStatusHandler(t *testing.T) {
	handler, store := newTestHandler(t)
	store.EXPECT().UpdateBidStatus(gomock.Any(), jobID, "accepted").
		Return(models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/bid/"+jobID, strings.NewReader(`{"status":"accepted","price":1}`))
	req = testutils.WithChiURLParams(req, map[string]string{"_id": jobID})

	res, body := serve(t, handler.UpdateBidStatusHandler, req)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, body, `"modifiedCount":1`)
}

func TestUpdateBidStatusHandler_UnknownBid(t *testing.T) {
	handler, store := newTestHandler(t)
	store.EXPECT().UpdateBidStatus(gomock.Any(), jobID, "accepted").
		Return(models.UpdateResult{Acknowledged: true}, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/bid/"+jobID, strings.NewReader(`{"status":"accepted"}`))
	req = testutils.WithChiURLParams(req, map[string]string{"_id": jobID})

	res, body := serve(t, handler.UpdateBidStatusHandler, req)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, body, `"matchedCount":0`)
}

func TestAccessTokenHandler(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/access-token", strings.NewReader(`{"email":"a@x.com"}`))
	res, body := serve(t, handler.AccessTokenHandler, req)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.JSONEq(t, `{"success":true}`, body)

	cookies := res.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookies[0].SameSite)

	identity, err := handler.Tokens.Verify(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", identity.Email())
}

func TestAccessTokenHandler_InvalidJSON(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/access-token", strings.NewReader(`{"email":`))
	res, _ := serve(t, handler.AccessTokenHandler, req)

	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Empty(t, res.Cookies())
}

func TestLogoutHandler(t *testing.T) {
	handler, _ := newTestHandler(t)

	res, body := serve(t, handler.LogoutHandler, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.JSONEq(t, `{"success":true}`, body)
	require.Len(t, res.Cookies(), 1)
	require.Equal(t, -1, res.Cookies()[0].MaxAge)
}

func TestCreateJobHandler_LogsIdentity(t *testing.T) {
	handler, store := newTestHandler(t)
	store.EXPECT().CreateJob(gomock.Any(), gomock.Any()).Return(models.InsertResult{Acknowledged: true, InsertedID: jobID}, nil)

	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())
	ctx = auth.WithIdentity(ctx, auth.Identity(`{"email":"a@x.com"}`))

	req := httptest.NewRequest(http.MethodPost, "/api/job", strings.NewReader(`{}`))
	req = req.WithContext(ctx)

	res, _ := serve(t, handler.CreateJobHandler, req)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, buf.String(), `"user":"a@x.com"`)
	require.Contains(t, buf.String(), `"job_id":"`+jobID+`"`)
	require.Contains(t, buf.String(), `"message":"job created"`)
}
