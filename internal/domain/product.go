package domain

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// AllCategories is the sentinel category that disables category filtering.
const AllCategories = "Все торты"

// CustomCategory is used for cart lines built from saved cakes.
const CustomCategory = "Создай сам"

var Categories = []string{
	AllCategories,
	"Бенто торты",
	"Фруктовые торты",
	"Бисквитные торты",
	"Чизкейки",
	"Шоколадные торты",
	"Класические торты",
	"Брауни",
	"Карамельные торты",
	"Фирменые торты",
	"Ягодные торты",
	"Ореховые торты",
	"Добавки",
}

func IsKnownCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name        string    `json:"name" gorm:"not null;index"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Price       int64     `json:"price" gorm:"not null"`
	ImageURL    string    `json:"imageUrl" gorm:"column:image_url;not null"`
	Category    string    `json:"category" gorm:"not null;index"`
	// SearchName is Name folded with Go's Unicode case mapping so search does
	// not depend on the database collation.
	SearchName  string    `json:"-" gorm:"not null;default:''"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.SearchName = strings.ToLower(p.Name)
	return nil
}

// ProductPage is one page of a catalog query plus the total match count.
type ProductPage struct {
	Items    []Product `json:"items"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
}

func (p ProductPage) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int((p.Total + int64(p.PageSize) - 1) / int64(p.PageSize))
}
