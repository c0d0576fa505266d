package update

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-manager/internal/models"
	"github.com/magabrotheeeer/subscription-manager/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Update(ctx context.Context, userUID, id string, req models.DummySubscription) (*models.Subscription, error) {
	args := m.Called(ctx, userUID, id, req)
	sub, _ := args.Get(0).(*models.Subscription)
	return sub, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(t *testing.T, id, userUID string, body any) *http.Request {
	t.Helper()

	var bodyBytes []byte
	switch v := body.(type) {
	case string:
		bodyBytes = []byte(v)
	default:
		var err error
		bodyBytes, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPut, "/subscriptions/"+id, bytes.NewReader(bodyBytes))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middlewarectx.UserUID, userUID)
	return req.WithContext(ctx)
}

func TestUpdateHandler_ServeHTTP(t *testing.T) {
	valid := models.DummySubscription{Name: "Netflix", Category: "OTT", Price: 9.99}

	t.Run("успешное обновление", func(t *testing.T) {
		svcMock := new(ServiceMock)
		svcMock.On("Update", mock.Anything, "uid-1", "sub-1", valid).
			Return(&models.Subscription{ID: "sub-1", Name: "Netflix"}, nil).Once()

		handler := New(newNoopLogger(), svcMock)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(t, "sub-1", "uid-1", valid))

		assert.Equal(t, http.StatusOK, rec.Code)
		svcMock.AssertExpectations(t)
	})

	t.Run("чужая или несуществующая запись — 404", func(t *testing.T) {
		svcMock := new(ServiceMock)
		svcMock.On("Update", mock.Anything, "uid-1", "foreign-id", valid).
			Return(nil, repository.ErrNotFound).Once()

		handler := New(newNoopLogger(), svcMock)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(t, "foreign-id", "uid-1", valid))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "subscription not found", resp["error"])
	})

	t.Run("невалидный json", func(t *testing.T) {
		handler := New(newNoopLogger(), new(ServiceMock))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(t, "sub-1", "uid-1", "not a json"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("нет обязательных полей", func(t *testing.T) {
		handler := New(newNoopLogger(), new(ServiceMock))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(t, "sub-1", "uid-1", models.DummySubscription{Price: 5}))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}
