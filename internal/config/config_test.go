package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8700 {
		t.Errorf("Port = %d, want 8700", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("MetricsPort = %d, want 8701", cfg.Server.MetricsPort)
	}
	if cfg.Events.URL != "nats://localhost:4222" {
		t.Errorf("Events.URL = %q", cfg.Events.URL)
	}
	if cfg.Engine.TaxRate != 0.08 {
		t.Errorf("TaxRate = %v, want 0.08", cfg.Engine.TaxRate)
	}
	if cfg.Engine.QuoteValidityDays != 30 {
		t.Errorf("QuoteValidityDays = %d, want 30", cfg.Engine.QuoteValidityDays)
	}
	if cfg.Engine.TopPlans != 3 || cfg.Engine.MaxFanout != 8 {
		t.Errorf("TopPlans/MaxFanout = %d/%d, want 3/8", cfg.Engine.TopPlans, cfg.Engine.MaxFanout)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if math.Abs(cfg.Scoring.Weights.Sum()-1.0) > 0.001 {
		t.Errorf("default weights sum = %v", cfg.Scoring.Weights.Sum())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 9100
engine:
  tax_rate: 0.05
  top_plans: 5
scoring:
  weights:
    affordability: 0.5
    claims_ease: 0.2
    coverage_ratio: 0.3
  claims_ease:
    Acme Mutual:
      ease_score: 91
      avg_settlement_days: 7
      claim_approval_rate: 0.98
logging:
  level: debug
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("MetricsPort = %d, want default 8701", cfg.Server.MetricsPort)
	}
	if cfg.Engine.TaxRate != 0.05 {
		t.Errorf("TaxRate = %v, want 0.05", cfg.Engine.TaxRate)
	}
	if cfg.Engine.TopPlans != 5 {
		t.Errorf("TopPlans = %d, want 5", cfg.Engine.TopPlans)
	}
	if cfg.Scoring.Weights.Affordability != 0.5 {
		t.Errorf("Affordability = %v, want 0.5", cfg.Scoring.Weights.Affordability)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}

	table := cfg.ClaimsEaseTable()
	acme := table.Lookup("Acme Mutual")
	if acme.EaseScore != 91 || acme.AvgSettlementDays != 7 {
		t.Errorf("Acme Mutual entry = %+v", acme)
	}
	// Built-in carriers survive the merge.
	prime := table.Lookup("PrimeCare Solutions")
	if prime.EaseScore != 92 {
		t.Errorf("PrimeCare Solutions ease = %v, want 92", prime.EaseScore)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("QUOTIENT_PORT", "9200")
	t.Setenv("QUOTIENT_DATABASE_URL", "postgres://db:5432/quotient")
	t.Setenv("QUOTIENT_NATS_URL", "nats://broker:4222")
	t.Setenv("QUOTIENT_TAX_RATE", "0.1")
	t.Setenv("QUOTIENT_TOP_PLANS", "4")
	t.Setenv("QUOTIENT_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9200 {
		t.Errorf("Port = %d, want 9200", cfg.Server.Port)
	}
	if cfg.Database.URL != "postgres://db:5432/quotient" {
		t.Errorf("Database.URL = %q", cfg.Database.URL)
	}
	if cfg.Events.URL != "nats://broker:4222" {
		t.Errorf("Events.URL = %q", cfg.Events.URL)
	}
	if cfg.Engine.TaxRate != 0.1 {
		t.Errorf("TaxRate = %v, want 0.1", cfg.Engine.TaxRate)
	}
	if cfg.Engine.TopPlans != 4 {
		t.Errorf("TopPlans = %d, want 4", cfg.Engine.TopPlans)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9100\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("QUOTIENT_PORT", "9300")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9300 {
		t.Errorf("Port = %d, want env override 9300", cfg.Server.Port)
	}
}

func TestLoadRejectsInvalidWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("scoring:\n  weights:\n    affordability: 0.9\n    claims_ease: 0.9\n    coverage_ratio: 0.9\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for weights not summing to 1")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
