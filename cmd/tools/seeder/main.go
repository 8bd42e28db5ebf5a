package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	tenantID := seedTenant(ctx, pool)
	log.Printf("Using Tenant ID: %s", tenantID)

	seedPaymentKeys(ctx, pool, tenantID)
	seedItems(ctx, pool, tenantID)
	seedOffers(ctx, pool, tenantID)

	log.Println("Seeding completed successfully!")
}

func seedTenant(ctx context.Context, pool *pgxpool.Pool) string {
	var id string
	err := pool.QueryRow(ctx, `
		INSERT INTO tenants (name, slug, tax_percent, card_fees_percent, bank_fees_percent, currency)
		VALUES ('Demo Academy', 'demo', 18, 2.9, 1.5, 'USD')
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`).Scan(&id)
	if err != nil {
		log.Fatalf("Failed to seed tenant: %v", err)
	}
	return id
}

func seedPaymentKeys(ctx context.Context, pool *pgxpool.Pool, tenantID string) {
	keys := []struct {
		provider string
		public   string
	}{
		{"stripe", "pk_test_demo"},
		{"razorpay", "rzp_test_demo"},
	}
	for _, k := range keys {
		_, err := pool.Exec(ctx, `
			INSERT INTO tenant_payment_keys (tenant_id, provider, public_key)
			VALUES ($1, $2, $3)
			ON CONFLICT (tenant_id, provider) DO UPDATE SET public_key = EXCLUDED.public_key`,
			tenantID, k.provider, k.public)
		if err != nil {
			log.Fatalf("Failed to seed payment key %s: %v", k.provider, err)
		}
	}
	log.Printf("Seeded %d payment keys", len(keys))
}

func seedItems(ctx context.Context, pool *pgxpool.Pool, tenantID string) {
	items := []struct {
		kind           string
		title          string
		price          float64
		membershipType string
		subAmount      float64
		regFee         float64
		freq           int
		unit           string
	}{
		{"course", "Intro to Photography", 149, "one-time", 0, 0, 0, ""},
		{"course", "Advanced Lighting Workshop", 299, "one-time", 0, 0, 0, ""},
		{"event", "Spring Portfolio Review", 49, "one-time", 0, 0, 0, ""},
		{"plan", "Pro Membership", 0, "recurring", 29, 10, 1, "months"},
		{"plan", "Studio Access", 0, "recurring", 240, 50, 1, "years"},
	}
	for _, it := range items {
		var err error
		if it.membershipType == "recurring" {
			_, err = pool.Exec(ctx, `
				INSERT INTO items (tenant_id, kind, title, price, membership_type,
					subscription_amount, registration_fee, billing_frequency, billing_unit, currency)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'USD')
				ON CONFLICT DO NOTHING`,
				tenantID, it.kind, it.title, it.price, it.membershipType,
				it.subAmount, it.regFee, it.freq, it.unit)
		} else {
			_, err = pool.Exec(ctx, `
				INSERT INTO items (tenant_id, kind, title, price, membership_type, currency)
				VALUES ($1, $2, $3, $4, $5, 'USD')
				ON CONFLICT DO NOTHING`,
				tenantID, it.kind, it.title, it.price, it.membershipType)
		}
		if err != nil {
			log.Fatalf("Failed to seed item %q: %v", it.title, err)
		}
	}
	log.Printf("Seeded %d items", len(items))
}

func seedOffers(ctx context.Context, pool *pgxpool.Pool, tenantID string) {
	offers := []struct {
		code  string
		typ   string
		value float64
	}{
		{"WELCOME20", "percentage", 20},
		{"SPRING10", "amount", 10},
		{"EARLYBIRD", "percentage", 15},
	}
	for _, o := range offers {
		_, err := pool.Exec(ctx, `
			INSERT INTO offers (tenant_id, code, discount_type, discount_value, active)
			VALUES ($1, $2, $3, $4, true)
			ON CONFLICT (tenant_id, lower(code)) DO UPDATE
				SET discount_type = EXCLUDED.discount_type,
				    discount_value = EXCLUDED.discount_value,
				    active = true`,
			tenantID, o.code, o.typ, o.value)
		if err != nil {
			log.Fatalf("Failed to seed offer %s: %v", o.code, err)
		}
	}
	log.Printf("Seeded %d offers", len(offers))
}
