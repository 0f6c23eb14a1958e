package mysql

import (
	"context"
	"errors"

	"cake-shop/internal/domain"
	"cake-shop/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) repository.ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) findBy(ctx context.Context, column, value string) (*domain.Profile, error) {
	var p domain.Profile
	if err := r.db.WithContext(ctx).Where(column+" = ?", value).Take(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeErr(err)
	}
	return &p, nil
}

func (r *profileRepo) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	return r.findBy(ctx, "id", id)
}

func (r *profileRepo) FindByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	return r.findBy(ctx, "username", username)
}

func (r *profileRepo) FindByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return r.findBy(ctx, "email", email)
}

func (r *profileRepo) FindByPhone(ctx context.Context, phone string) (*domain.Profile, error) {
	return r.findBy(ctx, "phone", phone)
}

func (r *profileRepo) UpdateAvatar(ctx context.Context, id string, avatarURL string) error {
	res := r.db.WithContext(ctx).Model(&domain.Profile{}).Where("id = ?", id).Update("avatar_url", avatarURL)
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		p, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

type credentialRepo struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) repository.CredentialRepository {
	return &credentialRepo{db: db}
}

func (r *credentialRepo) FindByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	var c domain.Credential
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeErr(err)
	}
	return &c, nil
}

func (r *credentialRepo) CreateAccount(ctx context.Context, cred *domain.Credential, profile *domain.Profile) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(cred).Error; err != nil {
			return err
		}
		if err := tx.Create(profile).Error; err != nil {
			zap.L().Error("profile insert failed after credential insert, rolling back",
				zap.String("user_id", cred.UserID), zap.String("email", cred.Email), zap.Error(err))
			return err
		}
		return nil
	})
	return storeErr(err)
}

type verificationRepo struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) repository.VerificationRepository {
	return &verificationRepo{db: db}
}

func (r *verificationRepo) Replace(ctx context.Context, v *domain.VerificationCode) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", v.Email).Delete(&domain.VerificationCode{}).Error; err != nil {
			return err
		}
		return tx.Create(v).Error
	})
	return storeErr(err)
}

func (r *verificationRepo) FindByEmail(ctx context.Context, email string) (*domain.VerificationCode, error) {
	var v domain.VerificationCode
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeErr(err)
	}
	return &v, nil
}

func (r *verificationRepo) DeleteByEmail(ctx context.Context, email string) error {
	return storeErr(r.db.WithContext(ctx).Where("email = ?", email).Delete(&domain.VerificationCode{}).Error)
}

type cakeRepo struct {
	db *gorm.DB
}

func NewCakeRepository(db *gorm.DB) repository.CakeRepository {
	return &cakeRepo{db: db}
}

func (r *cakeRepo) Save(ctx context.Context, cake *domain.SavedCake) error {
	return storeErr(r.db.WithContext(ctx).Create(cake).Error)
}

func (r *cakeRepo) FindByID(ctx context.Context, id string) (*domain.SavedCake, error) {
	var c domain.SavedCake
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeErr(err)
	}
	return &c, nil
}

func (r *cakeRepo) ListByUser(ctx context.Context, userID string) ([]domain.SavedCake, error) {
	var out []domain.SavedCake
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}
