package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultCategories are seeded for owners that have no categories yet.
var DefaultCategories = []string{
	"Habitação",
	"Alimentação",
	"Transporte",
	"Lazer",
	"Saúde",
	"Educação",
	"Salário",
	"Investimentos",
	"Cartão de Crédito",
	"Outros",
}

// FallbackCategory is used when a category cannot be determined.
const FallbackCategory = "Outros"

type Category struct {
	DefaultModel
	OwnerID uuid.UUID `json:"ownerId" gorm:"type:uuid;uniqueIndex:idx_category_owner_name,priority:1" example:"0bb4d0b6-2c08-4e1c-8d4a-8a51ec0ab4a1"`
	Name    string    `json:"name" gorm:"uniqueIndex:idx_category_owner_name,priority:2" example:"Alimentação"`
}

func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)

	if c.Name == "" {
		return ErrCategoryNameEmpty
	}

	return nil
}
