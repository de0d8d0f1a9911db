package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYAML = `
mode: DRY_RUN
poll_seconds: 30
feed:
  url: http://feed.local/findnewtrades
  source_tag: cashbox
order:
  quantity: 1
  policy: STOP_ENTRY
  stop_offset: 2.0
  limit_offset: 4.0
  stop_loss_offset: 10.0
  take_profit_offset: 15.0
contract:
  symbol: SPX
  expiry: "202609"
  exchange: CME
  currency: USD
symbol_map:
  SPX: MES
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Order.MaxOpenPerSide != 15 {
		t.Errorf("expected default max_open_per_side 15, got %d", cfg.Order.MaxOpenPerSide)
	}
	if cfg.Feed.TimeoutS != 15 {
		t.Errorf("expected default feed timeout 15s, got %d", cfg.Feed.TimeoutS)
	}
	if cfg.Cursor.Path != "bridge.db" {
		t.Errorf("expected default cursor path, got %q", cfg.Cursor.Path)
	}
}

func TestLoadConfigRejectsBadMode(t *testing.T) {
	bad := strings.Replace(validYAML, "mode: DRY_RUN", "mode: YOLO", 1)
	if _, err := LoadConfig(writeConfig(t, bad)); err == nil {
		t.Fatal("expected validation error for bad mode")
	}
}

func TestLoadConfigRejectsMissingFeedURL(t *testing.T) {
	cfgYAML := `
mode: DRY_RUN
order:
  quantity: 1
  policy: ENTRY_LIMIT
  stop_loss_offset: 10.0
  take_profit_offset: 15.0
contract:
  symbol: SPX
  expiry: "202609"
  exchange: CME
  currency: USD
`
	if _, err := LoadConfig(writeConfig(t, cfgYAML)); err == nil {
		t.Fatal("expected validation error for missing feed.url")
	}
}

func TestLoadConfigRejectsUnknownPolicy(t *testing.T) {
	cfg := &Config{}
	cfg.Mode = "DRY_RUN"
	cfg.PollSeconds = 30
	cfg.Feed.URL = "http://feed.local"
	cfg.Order.Quantity = 1
	cfg.Order.Policy = "MARKET"
	cfg.Order.StopLossOffset = 10
	cfg.Order.TakeProfitOffset = 15
	cfg.Order.MaxOpenPerSide = 15
	cfg.Contract.Symbol = "SPX"
	cfg.Contract.Expiry = "202609"
	cfg.Contract.Exchange = "CME"
	cfg.Contract.Currency = "USD"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown policy")
	}
}

func TestLoadConfigRejectsNonPositiveOffsets(t *testing.T) {
	cfg := &Config{}
	cfg.Mode = "DRY_RUN"
	cfg.PollSeconds = 30
	cfg.Feed.URL = "http://feed.local"
	cfg.Order.Quantity = 1
	cfg.Order.Policy = PolicyEntryLimit
	cfg.Order.StopLossOffset = 0
	cfg.Order.TakeProfitOffset = 15
	cfg.Order.MaxOpenPerSide = 15
	cfg.Contract.Symbol = "SPX"
	cfg.Contract.Expiry = "202609"
	cfg.Contract.Exchange = "CME"
	cfg.Contract.Currency = "USD"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for zero stop_loss_offset")
	}
}

func TestTradableSymbol(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.TradableSymbol("SPX"); got != "MES" {
		t.Errorf("expected SPX to remap to MES, got %q", got)
	}
	if got := cfg.TradableSymbol("NQ"); got != "NQ" {
		t.Errorf("expected unmapped symbol passthrough, got %q", got)
	}
}
