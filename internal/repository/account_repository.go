package repository

import (
	"context"

	"cake-shop/internal/domain"
)

type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	FindByUsername(ctx context.Context, username string) (*domain.Profile, error)
	FindByEmail(ctx context.Context, email string) (*domain.Profile, error)
	FindByPhone(ctx context.Context, phone string) (*domain.Profile, error)
	UpdateAvatar(ctx context.Context, id string, avatarURL string) error
}

type CredentialRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Credential, error)
	// CreateAccount stores the credential and profile together or not at all.
	CreateAccount(ctx context.Context, cred *domain.Credential, profile *domain.Profile) error
}

type VerificationRepository interface {
	// Replace deletes any code for the email and stores v in its place.
	Replace(ctx context.Context, v *domain.VerificationCode) error
	FindByEmail(ctx context.Context, email string) (*domain.VerificationCode, error)
	DeleteByEmail(ctx context.Context, email string) error
}

type CakeRepository interface {
	Save(ctx context.Context, cake *domain.SavedCake) error
	FindByID(ctx context.Context, id string) (*domain.SavedCake, error)
	ListByUser(ctx context.Context, userID string) ([]domain.SavedCake, error)
}
