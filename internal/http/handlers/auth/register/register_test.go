package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-manager/internal/lib/cookie"
	"github.com/magabrotheeeer/subscription-manager/internal/models"
	services "github.com/magabrotheeeer/subscription-manager/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, name, email, password, role string) (*models.User, string, error) {
	args := m.Called(ctx, name, email, password, role)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	user := &models.User{UID: "uid-1", Name: "Alice", Email: "a@x.com", Role: models.RoleUser}

	tests := []struct {
		name           string
		requestBody    any
		mockUser       *models.User
		mockToken      string
		mockErr        error
		wantStatusCode int
		wantError      string
		wantCookie     bool
	}{
		{
			name:           "успешная регистрация",
			requestBody:    Request{Name: "Alice", Email: "a@x.com", Password: "secret1"},
			mockUser:       user,
			mockToken:      "tok",
			wantStatusCode: http.StatusCreated,
			wantCookie:     true,
		},
		{
			name:           "невалидный json",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "нет email",
			requestBody:    Request{Name: "Alice", Password: "secret1"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Email is a required field",
		},
		{
			name:           "email занят",
			requestBody:    Request{Name: "Alice", Email: "a@x.com", Password: "secret1"},
			mockErr:        services.ErrEmailTaken,
			wantStatusCode: http.StatusConflict,
			wantError:      "email already registered",
		},
		{
			name:           "ошибка сервиса",
			requestBody:    Request{Name: "Alice", Email: "a@x.com", Password: "secret1"},
			mockErr:        errors.New("storage down"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to register user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock := new(ServiceMock)
			if tt.mockUser != nil || tt.mockErr != nil {
				req := tt.requestBody.(Request)
				svcMock.On("Register", mock.Anything, req.Name, req.Email, req.Password, req.Role).
					Return(tt.mockUser, tt.mockToken, tt.mockErr).Once()
			}

			issuer := cookie.NewIssuer(true, 168*time.Hour)
			handler := New(newNoopLogger(), svcMock, issuer)

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(bodyBytes))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, resp["error"])
			}

			cookies := rec.Result().Cookies()
			if tt.wantCookie {
				require.Len(t, cookies, 1)
				c := cookies[0]
				assert.Equal(t, cookie.Name, c.Name)
				assert.Equal(t, "tok", c.Value)
				assert.True(t, c.HttpOnly)
				assert.True(t, c.Secure)
				assert.Equal(t, http.SameSiteNoneMode, c.SameSite)
				assert.Equal(t, int((168 * time.Hour).Seconds()), c.MaxAge)

				data := resp["data"].(map[string]any)
				assert.Equal(t, "tok", data["token"])
			} else {
				assert.Empty(t, cookies)
			}
			svcMock.AssertExpectations(t)
		})
	}
}
