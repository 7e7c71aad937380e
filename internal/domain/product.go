package domain

import "time"

// Category is one of the fixed catalog categories
type Category string

const (
	CategorySupplements Category = "supplements"
	CategoryVitamins    Category = "vitamins"
	CategoryMinerals    Category = "minerals"
	CategoryHerbs       Category = "herbs"
	CategoryProbiotics  Category = "probiotics"
	CategoryFitness     Category = "fitness"
	CategorySkincare    Category = "skincare"
	CategoryNutrition   Category = "nutrition"
)

// Categories lists every category in display order
var Categories = []Category{
	CategorySupplements,
	CategoryVitamins,
	CategoryMinerals,
	CategoryHerbs,
	CategoryProbiotics,
	CategoryFitness,
	CategorySkincare,
	CategoryNutrition,
}

// Valid reports whether c is one of Categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Ratings is the aggregated review score of a product
type Ratings struct {
	Average float64 `json:"average" db:"ratings_average"`
	Count   int     `json:"count" db:"ratings_count"`
}

// Product represents a catalog item.
// Seq is the store-assigned insertion sequence used to break ordering ties.
type Product struct {
	ID          string    `json:"id" db:"id"`
	Seq         int64     `json:"-" db:"seq"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Category    Category  `json:"category" db:"category"`
	Images      []string  `json:"images" db:"images"`
	Stock       int       `json:"stock" db:"stock"`
	Ratings     Ratings   `json:"ratings"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
