package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"cake-shop/internal/auth"
	"cake-shop/internal/domain"
	"cake-shop/internal/infra"
	"cake-shop/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthMode string

// The client starts in signup or login; the service answers with verify or login.
const (
	ModeLogin  AuthMode = "login"
	ModeVerify AuthMode = "verify"
)

type SignupInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
	Phone    string `json:"phone" validate:"required,phone"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type LoginInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// AuthResult tells the client which mode it is in now.
type AuthResult struct {
	Mode    AuthMode        `json:"mode"`
	Email   string          `json:"email,omitempty"`
	Token   string          `json:"token,omitempty"`
	Profile *domain.Profile `json:"profile,omitempty"`
}

type AuthService struct {
	profiles      repository.ProfileRepository
	credentials   repository.CredentialRepository
	verifications repository.VerificationRepository
	mailer        infra.EmailSender
	tokens        *auth.TokenIssuer

	now      func() time.Time
	genCode  func() (string, error)
	hashPass func(string) (string, error)
}

func NewAuthService(
	profiles repository.ProfileRepository,
	credentials repository.CredentialRepository,
	verifications repository.VerificationRepository,
	mailer infra.EmailSender,
	tokens *auth.TokenIssuer,
) *AuthService {
	return &AuthService{
		profiles:      profiles,
		credentials:   credentials,
		verifications: verifications,
		mailer:        mailer,
		tokens:        tokens,
		now:           time.Now,
		genCode:       auth.GenerateCode,
		hashPass:      auth.HashPassword,
	}
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// Signup validates the form, parks it next to a fresh verification code and
// mails the code. Nothing is left behind when the mail cannot be sent.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	existing, err := s.profiles.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username %q is taken", domain.ErrConflict, in.Username)
	}
	existing, err = s.profiles.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email is already registered", domain.ErrConflict)
	}

	hash, err := s.hashPass(in.Password)
	if err != nil {
		return nil, err
	}

	pending := &domain.VerificationCode{
		Email:        in.Email,
		Username:     in.Username,
		FullName:     in.FullName,
		Phone:        in.Phone,
		PasswordHash: hash,
	}
	if err := s.issueCode(ctx, pending); err != nil {
		return nil, err
	}
	return &AuthResult{Mode: ModeVerify, Email: in.Email}, nil
}

// Resend issues a new code for a pending signup; the previous code stops working.
func (s *AuthService) Resend(ctx context.Context, email string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, domain.NewValidationError("email", fieldMessages["required"])
	}
	pending, err := s.verifications.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, fmt.Errorf("%w: no pending signup for this email", domain.ErrNotFound)
	}
	if err := s.issueCode(ctx, pending); err != nil {
		return nil, err
	}
	return &AuthResult{Mode: ModeVerify, Email: email}, nil
}

func (s *AuthService) issueCode(ctx context.Context, pending *domain.VerificationCode) error {
	code, err := s.genCode()
	if err != nil {
		return err
	}
	v := *pending
	v.ID = uuid.NewString()
	v.Code = code
	v.ExpiresAt = s.now().Add(domain.VerificationCodeTTL)
	v.CreatedAt = time.Time{}

	if err := s.verifications.Replace(ctx, &v); err != nil {
		return err
	}

	if _, err := s.mailer.SendVerificationCode(ctx, v.Email, code); err != nil {
		zap.L().Warn("verification email failed", zap.String("email", v.Email), zap.Error(err))
		if derr := s.verifications.DeleteByEmail(ctx, v.Email); derr != nil {
			zap.L().Error("drop undelivered verification code", zap.String("email", v.Email), zap.Error(derr))
		}
		return fmt.Errorf("%w: %v", domain.ErrDispatchFailed, err)
	}
	return nil
}

// Verify consumes the code and creates the credential and profile together.
func (s *AuthService) Verify(ctx context.Context, email, code string) (*AuthResult, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || len(code) != domain.VerificationCodeLength {
		return nil, domain.ErrCodeInvalid
	}

	pending, err := s.verifications.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if pending == nil || subtle.ConstantTimeCompare([]byte(pending.Code), []byte(code)) != 1 {
		return nil, domain.ErrCodeInvalid
	}
	if pending.Expired(s.now()) {
		return nil, domain.ErrCodeExpired
	}
	if pending.Username == "" || pending.PasswordHash == "" {
		return nil, fmt.Errorf("%w: no pending signup for this email", domain.ErrNotFound)
	}

	userID := uuid.NewString()
	cred := &domain.Credential{UserID: userID, Email: email, PasswordHash: pending.PasswordHash}
	profile := &domain.Profile{
		ID:       userID,
		Username: pending.Username,
		FullName: pending.FullName,
		Phone:    pending.Phone,
		Email:    email,
	}
	if err := s.credentials.CreateAccount(ctx, cred, profile); err != nil {
		return nil, err
	}

	if err := s.verifications.DeleteByEmail(ctx, email); err != nil {
		// The account exists; a stale code only lingers until it expires.
		zap.L().Warn("delete consumed verification code", zap.String("email", email), zap.Error(err))
	}

	token, err := s.tokens.Generate(profile.ID, profile.Username)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Mode: ModeLogin, Email: email, Token: token, Profile: profile}, nil
}

// Login accepts a username, email or phone as identifier.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Identifier = strings.TrimSpace(in.Identifier)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	profile, err := s.resolveIdentifier(ctx, in.Identifier)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrIdentifierNotFound
	}

	cred, err := s.credentials.FindByEmail(ctx, profile.Email)
	if err != nil {
		return nil, err
	}
	if cred == nil || !auth.CheckPassword(cred.PasswordHash, in.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(profile.ID, profile.Username)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Mode: ModeLogin, Email: profile.Email, Token: token, Profile: profile}, nil
}

// resolveIdentifier tries email, username and phone in turn. Usernames may
// contain "@", so an email miss still falls through to the username lookup.
func (s *AuthService) resolveIdentifier(ctx context.Context, id string) (*domain.Profile, error) {
	if strings.Contains(id, "@") {
		p, err := s.profiles.FindByEmail(ctx, normalizeEmail(id))
		if err != nil || p != nil {
			return p, err
		}
	}
	p, err := s.profiles.FindByUsername(ctx, id)
	if err != nil || p != nil {
		return p, err
	}
	if phonePattern.MatchString(id) {
		return s.profiles.FindByPhone(ctx, id)
	}
	return nil, nil
}

func (s *AuthService) ParseToken(token string) (*auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, errors.Join(domain.ErrUnauthorized, err)
	}
	return claims, nil
}
