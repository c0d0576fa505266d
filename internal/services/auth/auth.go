// Package services содержит логику бизнес-уровня для работы с учётными записями:
// регистрацию, вход, двухшаговые OTP-операции смены пароля и email, удаление аккаунта.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subscription-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-manager/internal/lib/otp"
	"github.com/magabrotheeeer/subscription-manager/internal/lib/password"
	"github.com/magabrotheeeer/subscription-manager/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-manager/internal/models"
	"github.com/magabrotheeeer/subscription-manager/internal/storage/repository"
)

// Ошибки бизнес-уровня. Обработчики преобразуют их в статусы ответа.
var (
	// ErrEmailTaken — email уже закреплён за другой учётной записью.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials — неверная пара email/пароль. Текст одинаков для
	// несуществующего адреса и неверного пароля, чтобы не раскрывать наличие аккаунта.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidOTP — код не совпал, истёк или уже был использован.
	ErrInvalidOTP = errors.New("invalid or expired code")
	// ErrSamePassword — новый пароль совпадает с текущим.
	ErrSamePassword = errors.New("new password must differ from the current one")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UpdateUserPassword(ctx context.Context, userUID, passwordHash string) error
	UpdateUserEmail(ctx context.Context, userUID, email string) error
	DeleteUser(ctx context.Context, userUID string) error
}

// OTPStore описывает хранилище одноразовых кодов с нативным TTL.
type OTPStore interface {
	Save(ctx context.Context, rec models.OTP) error
	Find(ctx context.Context, userUID, otpType string) (*models.OTP, error)
	Delete(ctx context.Context, userUID, otpType string) error
}

// Sender отправляет одноразовый код на почтовый адрес.
type Sender interface {
	SendOTP(email, code, otpType string) error
}

// AuthService отвечает за жизненный цикл учётной записи и выпуск токенов сессии.
type AuthService struct {
	users    UserRepository
	otps     OTPStore
	sender   Sender
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, otps OTPStore, sender Sender, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		otps:     otps,
		sender:   sender,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создает нового пользователя и возвращает его вместе с токеном сессии.
// Email приводится к нижнему регистру; роль admin присваивается только по явному запросу.
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword, role string) (*models.User, string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, "", err
	}
	if role != models.RoleAdmin {
		role = models.RoleUser
	}
	user := models.User{
		UID:          uuid.NewString(),
		Name:         name,
		Email:        normalizeEmail(email),
		PasswordHash: hashed,
		Role:         role,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}
	token, err := s.jwtMaker.GenerateToken(user.UID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login проверяет пароль пользователя и выпускает токен сессии.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.UID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Check возвращает пользователя по uid из валидной сессии.
func (s *AuthService) Check(ctx context.Context, userUID string) (*models.User, error) {
	return s.users.GetUser(ctx, userUID)
}

// SendPasswordResetOTP проверяет текущий пароль, создает одноразовый код
// и отправляет его на адрес пользователя. Новый код вытесняет предыдущий
// код той же операции.
func (s *AuthService) SendPasswordResetOTP(ctx context.Context, userUID, currentPassword string) error {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return err
	}
	if err := password.CompareHash(user.PasswordHash, currentPassword); err != nil {
		return ErrInvalidCredentials
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return err
	}
	rec := models.OTP{
		UserUID:   user.UID,
		Email:     user.Email,
		Code:      code,
		Type:      models.OTPTypePasswordReset,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.otps.Save(ctx, rec); err != nil {
		return err
	}
	if err := s.sender.SendOTP(user.Email, code, models.OTPTypePasswordReset); err != nil {
		s.log.Error("failed to send password reset otp", sl.Err(err))
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}

// VerifyPasswordResetOTP проверяет код и устанавливает новый пароль.
// Пароль, совпадающий с текущим, отклоняется; использованный код удаляется.
func (s *AuthService) VerifyPasswordResetOTP(ctx context.Context, userUID, code, newPassword string) error {
	rec, err := s.otps.Find(ctx, userUID, models.OTPTypePasswordReset)
	if err != nil {
		return err
	}
	if rec == nil || rec.Code != code {
		return ErrInvalidOTP
	}

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return err
	}
	// Сравнение через bcrypt: в открытом виде старый пароль нигде не хранится
	if err := password.CompareHash(user.PasswordHash, newPassword); err == nil {
		return ErrSamePassword
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdateUserPassword(ctx, userUID, hashed); err != nil {
		return err
	}
	return s.otps.Delete(ctx, userUID, models.OTPTypePasswordReset)
}

// SendEmailUpdateOTP проверяет, что новый адрес свободен, создает код
// с отложенным новым email и отправляет его на ТЕКУЩИЙ адрес пользователя.
func (s *AuthService) SendEmailUpdateOTP(ctx context.Context, userUID, newEmail string) error {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return err
	}

	newEmail = normalizeEmail(newEmail)
	if existing, err := s.users.GetUserByEmail(ctx, newEmail); err == nil && existing.UID != user.UID {
		return ErrEmailTaken
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return err
	}
	rec := models.OTP{
		UserUID:   user.UID,
		Email:     user.Email,
		Code:      code,
		Type:      models.OTPTypeEmailUpdate,
		NewEmail:  newEmail,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.otps.Save(ctx, rec); err != nil {
		return err
	}
	if err := s.sender.SendOTP(user.Email, code, models.OTPTypeEmailUpdate); err != nil {
		s.log.Error("failed to send email update otp", sl.Err(err))
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}

// VerifyEmailUpdateOTP проверяет код и переписывает email на отложенное значение.
// После успеха сессию нужно завершить: её привязка к адресу устарела.
func (s *AuthService) VerifyEmailUpdateOTP(ctx context.Context, userUID, code string) error {
	rec, err := s.otps.Find(ctx, userUID, models.OTPTypeEmailUpdate)
	if err != nil {
		return err
	}
	if rec == nil || rec.Code != code || rec.NewEmail == "" {
		return ErrInvalidOTP
	}

	if err := s.users.UpdateUserEmail(ctx, userUID, rec.NewEmail); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return ErrEmailTaken
		}
		return err
	}
	return s.otps.Delete(ctx, userUID, models.OTPTypeEmailUpdate)
}

// DeleteAccount удаляет учётную запись; подписки пользователя удаляются каскадно.
func (s *AuthService) DeleteAccount(ctx context.Context, userUID string) error {
	return s.users.DeleteUser(ctx, userUID)
}

// ValidateToken проверяет токен сессии и возвращает uid и роль пользователя.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
