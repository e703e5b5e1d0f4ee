// Package seed fills an empty store with the default storefront catalog.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"roboturkiye-backend/internal/models"
	"roboturkiye-backend/internal/repository"
)

const placeholderImage = "/api/placeholder/300/300"

type categorySeed struct {
	name, slug, description string
}

var defaultCategories = []categorySeed{
	{"Tüm Ürünler", models.AllProductsSlug, "Tüm ürünler"},
	{"Elektrikli Ev Aletleri", "elektrikli-ev-aletleri", "Elektrikli ev aletleri"},
	{"Spor Aletleri", "spor-aletleri", "Spor ve fitness aletleri"},
	{"Küçük Ev Aletleri", "kucuk-ev-aletleri", "Küçük ev aletleri"},
	{"Oyuncak", "oyuncak", "Oyuncaklar"},
}

type productSeed struct {
	name          string
	originalPrice float64
	currentPrice  float64
	rating        int
	badge         string
	category      string
}

var defaultProducts = []productSeed{
	{"robo Uzaktan Kumandalı Isıtma ve Soğutma Ünitesi", 7759, 5319, 5, "40% İNDİRİM", "ev-aletleri"},
	{"robo Ultra 1.90 Bar 88W Yüksek Basınçlı Yıkama Makinesi", 1699, 1699, 3, "", "ev-aletleri"},
	{"robo Turbo 1 Şarjlı 70 Bar Yüksek Basınçlı Oto Yıkama ve Sulama", 1599, 1599, 5, "40% İNDİRİM", "ev-aletleri"},
	{"robo Yüksek Basınçlı Yıkama Makinesi", 4599, 4599, 5, "YENİ", "ev-aletleri"},
	{"robo Şarjlı Çim Biçme Makinesi", 1699, 1699, 5, "", "bahce"},
	{"robo Katlanır Çamaşır Makinesi 10 Litre", 2499, 1499, 5, "40% İNDİRİM", "ev-aletleri"},
	{"robo Süt köpürtücülü Espresso Latte Cappuccino Americano Kahve", 5499, 3299, 5, "40% İNDİRİM", "ev-aletleri"},
	{"robo Şarjlı Taşınabilir Çamaşır Makinesi", 1499, 1499, 5, "YENİ", "ev-aletleri"},
	{"robo Müzikli Duvar Boks Padi", 2999, 1650, 5, "45% İNDİRİM", "spor"},
	{"robo Masaj Gözlüğü", 1699, 1699, 5, "", "saglik"},
	{"robo Kings 8 Litre Air Fryer Sıcak Hava Fritözü", 1999, 1999, 5, "YENİ", "ev-aletleri"},
	{"robo Katlanır Çamaşır Kurutma Makinesi", 1999, 1999, 5, "KREM MOR PEMBE", "ev-aletleri"},
}

// Run seeds categories and products. Each collection is only written when
// it is empty, so restarts leave existing data alone.
func Run(ctx context.Context, store *repository.Store, log *zap.Logger) error {
	categories, err := store.Categories.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	if len(categories) == 0 {
		for _, c := range defaultCategories {
			desc := c.description
			category := &models.Category{ID: uuid.NewString(), Name: c.name, Slug: c.slug, Description: &desc}
			if err := store.Categories.Create(ctx, category); err != nil {
				return fmt.Errorf("failed to seed category %s: %w", c.slug, err)
			}
		}
		log.Info("Seeded categories", zap.Int("count", len(defaultCategories)))
	}

	_, total, err := store.Products.List(ctx, repository.ProductFilter{Limit: 1})
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if total > 0 {
		return nil
	}
	// Distinct timestamps keep the catalog order stable under created_at sorts.
	base := time.Now().UTC()
	for i, p := range defaultProducts {
		now := base.Add(time.Duration(i) * time.Millisecond)
		product := &models.Product{
			ID:            uuid.NewString(),
			Name:          p.name,
			Description:   p.name + " - Yüksek kalite, garantili ürün. Hızlı kargo ile kapınızda!",
			Image:         placeholderImage,
			OriginalPrice: p.originalPrice,
			CurrentPrice:  p.currentPrice,
			Rating:        p.rating,
			Category:      p.category,
			InStock:       true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if p.badge != "" {
			badge := p.badge
			product.Badge = &badge
		}
		if err := store.Products.Create(ctx, product); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", p.name, err)
		}
	}
	log.Info("Seeded products", zap.Int("count", len(defaultProducts)))
	return nil
}
