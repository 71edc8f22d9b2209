package migrate

import "testing"

func TestValidateDirAcceptsBundledMigrations(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("bundled migrations should validate: %v", err)
	}
}

func TestValidateDirRejectsBadName(t *testing.T) {
	dir := t.TempDir()
	if _, err := CreateSQLMigration(dir, "add widgets"); err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
}
