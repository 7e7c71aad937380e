package seed

import "github.com/prperemyshlev/storefront/internal/domain"

func img(id string) []string {
	return []string{"https://images.unsplash.com/photo-" + id + "?w=500"}
}

// Catalog returns the sample wellness catalogue
func Catalog() []domain.Product {
	return []domain.Product{
		{
			Name:        "Organic Green Tea Extract",
			Description: "Premium quality green tea extract rich in antioxidants. Perfect for daily wellness routine.",
			Price:       29.99,
			Category:    domain.CategorySupplements,
			Images:      img("1564890369478-c89ca6d9cde9"),
			Stock:       100,
			Ratings:     domain.Ratings{Average: 4.5, Count: 24},
		},
		{
			Name:        "Vitamin D3 5000 IU",
			Description: "High potency Vitamin D3 supplement for immune support and bone health.",
			Price:       19.99,
			Category:    domain.CategoryVitamins,
			Images:      img("1550572017-4814c8db3f14"),
			Stock:       150,
			Ratings:     domain.Ratings{Average: 4.8, Count: 45},
		},
		{
			Name:        "Omega-3 Fish Oil",
			Description: "Pure omega-3 fish oil capsules for heart and brain health.",
			Price:       24.99,
			Category:    domain.CategorySupplements,
			Images:      img("1505751172876-fa1923c5c528"),
			Stock:       80,
			Ratings:     domain.Ratings{Average: 4.6, Count: 32},
		},
		{
			Name:        "Probiotic Complex",
			Description: "50 billion CFU probiotic blend for digestive health and immunity.",
			Price:       34.99,
			Category:    domain.CategoryProbiotics,
			Images:      img("1550572017-4814c8db3f14"),
			Stock:       60,
			Ratings:     domain.Ratings{Average: 4.7, Count: 28},
		},
		{
			Name:        "Turmeric Curcumin",
			Description: "Organic turmeric with black pepper extract for maximum absorption.",
			Price:       22.99,
			Category:    domain.CategoryHerbs,
			Images:      img("1615485290382-441e4d049cb5"),
			Stock:       120,
			Ratings:     domain.Ratings{Average: 4.4, Count: 19},
		},
		{
			Name:        "Magnesium Glycinate",
			Description: "Highly absorbable magnesium for relaxation and better sleep.",
			Price:       18.99,
			Category:    domain.CategoryMinerals,
			Images:      img("1584308666744-24d5c474f2ae"),
			Stock:       90,
			Ratings:     domain.Ratings{Average: 4.9, Count: 56},
		},
		{
			Name:        "Collagen Peptides",
			Description: "Grass-fed collagen powder for skin, hair, and joint health.",
			Price:       39.99,
			Category:    domain.CategorySkincare,
			Images:      img("1556909114-f6e7ad7d3136"),
			Stock:       75,
			Ratings:     domain.Ratings{Average: 4.6, Count: 41},
		},
		{
			Name:        "Ashwagandha Root Extract",
			Description: "Adaptogenic herb for stress relief and energy support.",
			Price:       26.99,
			Category:    domain.CategoryHerbs,
			Images:      img("1620735692909-aa4e7fb05a58"),
			Stock:       85,
			Ratings:     domain.Ratings{Average: 4.5, Count: 33},
		},
		{
			Name:        "Multivitamin Complete",
			Description: "Comprehensive daily multivitamin with essential nutrients.",
			Price:       32.99,
			Category:    domain.CategoryVitamins,
			Images:      img("1550572017-4814c8db3f14"),
			Stock:       110,
			Ratings:     domain.Ratings{Average: 4.7, Count: 52},
		},
		{
			Name:        "B-Complex Vitamins",
			Description: "Full spectrum B vitamins for energy and metabolism support.",
			Price:       16.99,
			Category:    domain.CategoryVitamins,
			Images:      img("1509042239860-f550ce710b93"),
			Stock:       95,
			Ratings:     domain.Ratings{Average: 4.6, Count: 38},
		},
		{
			Name:        "Zinc Immune Support",
			Description: "High-quality zinc supplement for immune system health.",
			Price:       14.99,
			Category:    domain.CategoryMinerals,
			Images:      img("1587854692152-cbe660dbde88"),
			Stock:       130,
			Ratings:     domain.Ratings{Average: 4.5, Count: 27},
		},
		{
			Name:        "CoQ10 Ubiquinol",
			Description: "Active form of CoQ10 for cardiovascular and cellular energy.",
			Price:       44.99,
			Category:    domain.CategorySupplements,
			Images:      img("1471864190281-a93a3070b6de"),
			Stock:       55,
			Ratings:     domain.Ratings{Average: 4.8, Count: 44},
		},
		{
			Name:        "Plant Protein Powder",
			Description: "Pea and rice protein blend with 24g protein per serving.",
			Price:       42.5,
			Category:    domain.CategoryFitness,
			Images:      []string{},
			Stock:       40,
			Ratings:     domain.Ratings{Average: 4.3, Count: 15},
		},
		{
			Name:        "Electrolyte Hydration Mix",
			Description: "Sugar-free electrolyte powder for training and recovery.",
			Price:       21,
			Category:    domain.CategoryFitness,
			Images:      []string{},
			Stock:       0,
			Ratings:     domain.Ratings{},
		},
		{
			Name:        "Organic Chia Seeds",
			Description: "Whole chia seeds, a source of fibre and plant omega-3.",
			Price:       9.99,
			Category:    domain.CategoryNutrition,
			Images:      []string{},
			Stock:       200,
			Ratings:     domain.Ratings{Average: 4.2, Count: 11},
		},
	}
}
