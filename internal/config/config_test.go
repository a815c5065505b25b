package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestSetDefaultsUnmarshal(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal defaults failed: %v", err)
	}
	cfg.Ledger.normalize()

	if cfg.Database.Driver != "sqlite" || cfg.Server.Port != "8080" {
		t.Fatalf("unexpected server/database defaults: %+v %+v", cfg.Server, cfg.Database)
	}
	if cfg.Ledger.CodePrefix != "TMS/ORD" || cfg.Ledger.CodeWidth != 3 || cfg.Ledger.CreateRetries != 3 {
		t.Fatalf("unexpected ledger defaults: %+v", cfg.Ledger)
	}
	if cfg.Ledger.DefaultPageLimit != 10 || cfg.Ledger.MaxPageLimit != 100 {
		t.Fatalf("unexpected pagination defaults: %+v", cfg.Ledger)
	}
	if cfg.Queue.Queues["default"] != 5 || cfg.JWT.Enabled {
		t.Fatalf("unexpected queue/jwt defaults: %+v %+v", cfg.Queue, cfg.JWT)
	}
	if cfg.Security.WriteRateLimit.MaxRequests != 120 {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.Security.WriteRateLimit)
	}
}

func TestLedgerNormalize(t *testing.T) {
	ledger := LedgerConfig{CodePrefix: "  ", CodeWidth: -1, DefaultPageLimit: 20, MaxPageLimit: 5}
	ledger.normalize()
	if ledger.CodePrefix != "TMS/ORD" || ledger.CodeWidth != 3 {
		t.Fatalf("blank prefix and width should fall back, got %+v", ledger)
	}
	if ledger.CreateRetries != 1 {
		t.Fatalf("retries should be at least one, got %d", ledger.CreateRetries)
	}
	if ledger.MaxPageLimit != 20 {
		t.Fatalf("max limit should not be below default, got %d", ledger.MaxPageLimit)
	}
}
