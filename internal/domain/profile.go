package domain

import "time"

type Profile struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username  string    `json:"username" gorm:"type:varchar(50);not null;uniqueIndex"`
	FullName  string    `json:"fullName" gorm:"type:varchar(100);not null"`
	Phone     string    `json:"phone" gorm:"type:varchar(20);not null;index"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// Credential is the login secret of an account, keyed by the same id as its Profile.
type Credential struct {
	UserID       string    `gorm:"primaryKey;type:varchar(36)"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

const (
	VerificationCodeLength = 6
	VerificationCodeTTL    = 10 * time.Minute
)

// VerificationCode is the single live code for an email, together with the
// signup details waiting for it.
type VerificationCode struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Code         string    `gorm:"type:varchar(6);not null"`
	ExpiresAt    time.Time `gorm:"not null"`
	Username     string    `gorm:"type:varchar(50)"`
	FullName     string    `gorm:"type:varchar(100)"`
	Phone        string    `gorm:"type:varchar(20)"`
	PasswordHash string
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (v *VerificationCode) Expired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}

type CakeDesign struct {
	Type    string `json:"type" binding:"required,oneof=cupcake bento custom"`
	Shape   string `json:"shape,omitempty"`
	Filling string `json:"filling,omitempty"`
	Topping string `json:"topping,omitempty"`
	Design  string `json:"design,omitempty"`
	Wall    string `json:"wall,omitempty"`
}

const (
	SavedCakePrice = int64(15000)
	SavedCakeImage = "https://images.unsplash.com/photo-1562440499-64c9a4a4bf86?w=400&h=400&fit=crop"
)

type SavedCake struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string     `json:"userId" gorm:"type:varchar(36);not null;index"`
	Name      string     `json:"name" gorm:"not null"`
	Layers    CakeDesign `json:"layers" gorm:"serializer:json;type:json;not null"`
	CreatedAt time.Time  `json:"createdAt" gorm:"autoCreateTime"`
}

func (c SavedCake) CartLine() CartLine {
	return CartLine{
		ID:          "saved-" + c.ID,
		Name:        c.Name,
		Description: "Сохраненный торт",
		Price:       SavedCakePrice,
		ImageURL:    SavedCakeImage,
		Category:    CustomCategory,
		Quantity:    1,
	}
}
