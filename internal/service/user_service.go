package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"partshop/internal/auth"
	"partshop/internal/domain"
	"partshop/internal/logging"
	"partshop/internal/repository"
)

// RegisterInput данные самостоятельной регистрации покупателя
type RegisterInput struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserInput создание пользователя администратором или гаражом.
// Пустая роль означает CUSTOMER.
type UserInput struct {
	FullName string      `json:"fullName" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     domain.Role `json:"role"`
}

// UserUpdate частичное обновление; пустые поля не меняются
type UserUpdate struct {
	FullName string      `json:"fullName"`
	Email    string      `json:"email" validate:"omitempty,email"`
	Password string      `json:"password" validate:"omitempty,min=6"`
	Role     domain.Role `json:"role"`
}

// Session результат регистрации или входа
type Session struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// UserService учётные записи, вход и токены
type UserService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	logger *zap.Logger
}

func NewUserService(users repository.UserRepository, tokens *auth.TokenManager, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, tokens: tokens, logger: logger.Named("users")}
}

var errBadCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	u, err := s.create(ctx, in.FullName, in.Email, in.Password, domain.RoleCustomer, "")
	if err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	u, err := s.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	ok, err := auth.CheckPassword(u.PasswordHash, in.Password)
	if err != nil {
		return nil, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		logging.FromContext(ctx, s.logger).Info("login rejected", zap.String("user_id", u.ID))
		return nil, errBadCredentials
	}
	return s.session(u)
}

// Authenticate проверяет токен и загружает учётную запись, на которую он выдан.
// Роль в возвращаемых claims берётся из хранилища, а не из токена.
func (s *UserService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	u, err := s.users.GetByID(ctx, claims.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: account %s no longer exists", ErrUnauthenticated, claims.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}
	claims.Role = u.Role
	return claims, nil
}

func (s *UserService) session(u *domain.User) (*Session, error) {
	token, err := s.tokens.Issue(*u)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: token}, nil
}

func (s *UserService) create(ctx context.Context, fullName, email, password string, role domain.Role, managedBy string) (*domain.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := domain.User{
		FullName:     strings.TrimSpace(fullName),
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		Role:         role,
		ManagedBy:    managedBy,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: user already exists", ErrConflict)
		}
		return nil, err
	}
	logging.FromContext(ctx, s.logger).Info("user created",
		zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return &u, nil
}

// CreateUser создание учётной записи администратором, с любой ролью
func (s *UserService) CreateUser(ctx context.Context, in UserInput) (*domain.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	if !role.Valid() {
		return nil, invalid("unknown role %q", in.Role)
	}
	return s.create(ctx, in.FullName, in.Email, in.Password, role, "")
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid("user id is required")
	}
	return s.users.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, f repository.UserFilter) ([]domain.User, error) {
	if f.Role != "" && !f.Role.Valid() {
		return nil, invalid("unknown role %q", f.Role)
	}
	return s.users.List(ctx, f)
}

// UpdateUser единственный путь смены роли
func (s *UserService) UpdateUser(ctx context.Context, id string, in UserUpdate) (*domain.User, error) {
	if in.Role != "" && !in.Role.Valid() {
		return nil, invalid("unknown role %q", in.Role)
	}
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, u, in, true)
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return invalid("user id is required")
	}
	return s.users.Delete(ctx, id)
}

func (s *UserService) update(ctx context.Context, u *domain.User, in UserUpdate, allowRole bool) (*domain.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(in.FullName); v != "" {
		u.FullName = v
	}
	if v := strings.TrimSpace(in.Email); v != "" {
		u.Email = v
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	if allowRole && in.Role != "" {
		u.Role = in.Role
	}
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already in use", ErrConflict)
		}
		return nil, err
	}
	return u, nil
}

// CreateManagedCustomer гараж заводит клиента от своего имени
func (s *UserService) CreateManagedCustomer(ctx context.Context, garageID string, in UserInput) (*domain.User, error) {
	if strings.TrimSpace(garageID) == "" {
		return nil, ErrUnauthenticated
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.Role != "" && in.Role != domain.RoleCustomer {
		return nil, fmt.Errorf("%w: garages may only create customers", ErrForbidden)
	}
	return s.create(ctx, in.FullName, in.Email, in.Password, domain.RoleCustomer, garageID)
}

func (s *UserService) ListManagedCustomers(ctx context.Context, garageID string) ([]domain.User, error) {
	if strings.TrimSpace(garageID) == "" {
		return nil, ErrUnauthenticated
	}
	return s.users.List(ctx, repository.UserFilter{Role: domain.RoleCustomer, ManagedBy: garageID})
}

func (s *UserService) GetManagedCustomer(ctx context.Context, garageID, id string) (*domain.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if garageID == "" || u.ManagedBy != garageID {
		return nil, ErrForbidden
	}
	return u, nil
}

// UpdateManagedCustomer роль клиента гаражом не меняется
func (s *UserService) UpdateManagedCustomer(ctx context.Context, garageID, id string, in UserUpdate) (*domain.User, error) {
	u, err := s.GetManagedCustomer(ctx, garageID, id)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, u, in, false)
}

func (s *UserService) DeleteManagedCustomer(ctx context.Context, garageID, id string) error {
	if _, err := s.GetManagedCustomer(ctx, garageID, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}
