package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPurchasingMigrationConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_purchasing.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no purchasing migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS suppliers",
		"CREATE TABLE IF NOT EXISTS purchase_orders",
		"CREATE TABLE IF NOT EXISTS purchase_order_items",
		"CHECK (quantity_received <= quantity_ordered)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_purchase_orders_po_number",
		"DROP TABLE IF EXISTS purchase_order_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
