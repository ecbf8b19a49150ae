package database

import (
	"fmt"

	"gorm.io/gorm"
)

// MigrateConstraints applies idempotent DDL beyond what AutoMigrate covers:
// - a partial unique index preventing two unsigned agreements for the same
//   (client, product) pair from racing past the application-level check
// - money CHECK constraints on payments
// - NUMERIC(12,2) money column types
func MigrateConstraints() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		alters := []string{
			`ALTER TABLE products   ALTER COLUMN price             TYPE numeric(12,2)`,
			`ALTER TABLE agreements ALTER COLUMN calculated_price  TYPE numeric(12,2)`,
			`ALTER TABLE payments   ALTER COLUMN money_owed_full   TYPE numeric(12,2)`,
			`ALTER TABLE payments   ALTER COLUMN money_paid        TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		indexes := []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_agreements_unsigned_client_product
				ON agreements (client_id, product_id) WHERE is_signed = false`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_agreement ON payments (agreement_id)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		checks := []string{
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'payments'::regclass
					  AND conname  = 'chk_payments_money_paid_range'
				) THEN
					ALTER TABLE payments
					ADD CONSTRAINT chk_payments_money_paid_range
					CHECK (money_paid >= 0 AND money_paid <= money_owed_full);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'products'::regclass
					  AND conname  = 'chk_products_price_nonneg'
				) THEN
					ALTER TABLE products
					ADD CONSTRAINT chk_products_price_nonneg
					CHECK (price >= 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
