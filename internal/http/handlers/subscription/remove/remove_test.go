package remove

import (
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
	"github.com/magabrotheeeer/subscription-manager/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Remove(ctx context.Context, userUID, id string) error {
	return m.Called(ctx, userUID, id).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(id, userUID string) *http.Request {
	req := httptest.NewRequest(http.MethodDelete, "/subscriptions/"+id, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middlewarectx.UserUID, userUID)
	return req.WithContext(ctx)
}

func TestRemoveHandler_ServeHTTP(t *testing.T) {
	t.Run("успешное удаление", func(t *testing.T) {
		svcMock := new(ServiceMock)
		svcMock.On("Remove", mock.Anything, "uid-1", "sub-1").Return(nil).Once()

		handler := New(newNoopLogger(), svcMock)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("sub-1", "uid-1"))

		assert.Equal(t, http.StatusOK, rec.Code)
		svcMock.AssertExpectations(t)
	})

	t.Run("чужая или несуществующая запись — 404", func(t *testing.T) {
		svcMock := new(ServiceMock)
		svcMock.On("Remove", mock.Anything, "uid-1", "foreign-id").
			Return(repository.ErrNotFound).Once()

		handler := New(newNoopLogger(), svcMock)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("foreign-id", "uid-1"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "subscription not found", resp["error"])
	})

	t.Run("нет идентификатора пользователя", func(t *testing.T) {
		handler := New(newNoopLogger(), new(ServiceMock))
		req := httptest.NewRequest(http.MethodDelete, "/subscriptions/sub-1", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
