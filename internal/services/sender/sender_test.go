package services

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-manager/internal/lib/smtp"
	"github.com/magabrotheeeer/subscription-manager/internal/models"
)

type TransportMock struct{ mock.Mock }

func (m *TransportMock) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *TransportMock) GetSMTPUser() string {
	return m.Called().String(0)
}

type ClientMock struct {
	mock.Mock
	body bytes.Buffer
}

func (m *ClientMock) Mail(from string) error { return m.Called(from).Error(0) }
func (m *ClientMock) Rcpt(to string) error   { return m.Called(to).Error(0) }
func (m *ClientMock) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}
func (m *ClientMock) Quit() error  { return m.Called().Error(0) }
func (m *ClientMock) Close() error { return m.Called().Error(0) }

type nopWriteCloser struct{ *bytes.Buffer }

func (nopWriteCloser) Close() error { return nil }

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendOTP_Success(t *testing.T) {
	transport := new(TransportMock)
	client := new(ClientMock)
	buf := &bytes.Buffer{}

	transport.On("GetSMTPUser").Return("noreply@example.com")
	transport.On("Connect").Return(client, nil)
	client.On("Mail", "noreply@example.com").Return(nil)
	client.On("Rcpt", "a@x.com").Return(nil)
	client.On("Data").Return(nopWriteCloser{buf}, nil)
	client.On("Quit").Return(nil)
	client.On("Close").Return(nil)

	svc := NewSenderService(newTestLogger(), transport)

	err := svc.SendOTP("a@x.com", "123456", models.OTPTypePasswordReset)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "123456")
	assert.Contains(t, buf.String(), "Password Reset OTP")
	client.AssertExpectations(t)
}

func TestSendOTP_EmailUpdateSubject(t *testing.T) {
	transport := new(TransportMock)
	client := new(ClientMock)
	buf := &bytes.Buffer{}

	transport.On("GetSMTPUser").Return("noreply@example.com")
	transport.On("Connect").Return(client, nil)
	client.On("Mail", mock.Anything).Return(nil)
	client.On("Rcpt", mock.Anything).Return(nil)
	client.On("Data").Return(nopWriteCloser{buf}, nil)
	client.On("Quit").Return(nil)
	client.On("Close").Return(nil)

	svc := NewSenderService(newTestLogger(), transport)

	err := svc.SendOTP("a@x.com", "654321", models.OTPTypeEmailUpdate)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Email Update OTP")
}

func TestSendOTP_ConnectFails(t *testing.T) {
	transport := new(TransportMock)
	transport.On("GetSMTPUser").Return("noreply@example.com")
	transport.On("Connect").Return(nil, errors.New("dial error"))

	svc := NewSenderService(newTestLogger(), transport)

	err := svc.SendOTP("a@x.com", "123456", models.OTPTypePasswordReset)
	assert.Error(t, err)
}
