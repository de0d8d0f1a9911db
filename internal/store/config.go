package store

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the strongly typed bridge configuration. Every field is
// validated at load time so a malformed file fails fast instead of at
// point of use halfway through a dispatch.
type Config struct {
	Mode        string `yaml:"mode"` // DRY_RUN or LIVE
	PollSeconds int    `yaml:"poll_seconds"`

	Feed struct {
		URL       string `yaml:"url"`
		SourceTag string `yaml:"source_tag"`
		TimeoutS  int    `yaml:"timeout_seconds"`
	} `yaml:"feed"`

	Order struct {
		Quantity         int     `yaml:"quantity"`
		Policy           string  `yaml:"policy"` // ENTRY_LIMIT or STOP_ENTRY
		EntryOffset      float64 `yaml:"entry_offset"`
		StopOffset       float64 `yaml:"stop_offset"`
		LimitOffset      float64 `yaml:"limit_offset"`
		StopLossOffset   float64 `yaml:"stop_loss_offset"`
		TakeProfitOffset float64 `yaml:"take_profit_offset"`
		MaxOpenPerSide   int     `yaml:"max_open_per_side"`
	} `yaml:"order"`

	Contract struct {
		Symbol   string `yaml:"symbol"`
		Expiry   string `yaml:"expiry"`
		Exchange string `yaml:"exchange"`
		Currency string `yaml:"currency"`
	} `yaml:"contract"`

	// Index symbol -> tradable future symbol (e.g. SPX -> MES).
	SymbolMap map[string]string `yaml:"symbol_map"`

	Cursor struct {
		Path string `yaml:"path"`
	} `yaml:"cursor"`

	Notify struct {
		DiscordWebhook string `yaml:"discord_webhook"`
	} `yaml:"notify"`

	Metrics struct {
		Listen string `yaml:"listen"` // e.g. ":9090", empty disables
	} `yaml:"metrics"`
}

const (
	PolicyEntryLimit = "ENTRY_LIMIT"
	PolicyStopEntry  = "STOP_ENTRY"
)

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.Feed.URL == "" {
		return fmt.Errorf("feed.url cannot be empty")
	}
	if c.PollSeconds <= 0 {
		return fmt.Errorf("poll_seconds must be positive, got %d", c.PollSeconds)
	}
	if c.Order.Quantity <= 0 {
		return fmt.Errorf("order.quantity must be positive, got %d", c.Order.Quantity)
	}
	switch strings.ToUpper(c.Order.Policy) {
	case PolicyEntryLimit, PolicyStopEntry:
	default:
		return fmt.Errorf("order.policy must be '%s' or '%s', got '%s'",
			PolicyEntryLimit, PolicyStopEntry, c.Order.Policy)
	}
	if c.Order.StopLossOffset <= 0 {
		return fmt.Errorf("order.stop_loss_offset must be positive, got %.2f", c.Order.StopLossOffset)
	}
	if c.Order.TakeProfitOffset <= 0 {
		return fmt.Errorf("order.take_profit_offset must be positive, got %.2f", c.Order.TakeProfitOffset)
	}
	if c.Order.MaxOpenPerSide <= 0 {
		return fmt.Errorf("order.max_open_per_side must be positive, got %d", c.Order.MaxOpenPerSide)
	}
	if c.Contract.Symbol == "" || c.Contract.Expiry == "" {
		return fmt.Errorf("contract.symbol and contract.expiry are required")
	}
	if c.Contract.Exchange == "" || c.Contract.Currency == "" {
		return fmt.Errorf("contract.exchange and contract.currency are required")
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.PollSeconds == 0 {
		c.PollSeconds = 30
	}
	if c.Order.MaxOpenPerSide == 0 {
		c.Order.MaxOpenPerSide = 15
	}
	if c.Order.Policy == "" {
		c.Order.Policy = PolicyEntryLimit
	}
	c.Order.Policy = strings.ToUpper(c.Order.Policy)
	if c.Feed.TimeoutS == 0 {
		c.Feed.TimeoutS = 15
	}
	if c.Cursor.Path == "" {
		c.Cursor.Path = "bridge.db"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

// TradableSymbol applies the symbol remap table, falling back to the
// feed symbol when no mapping exists.
func (c *Config) TradableSymbol(feedSymbol string) string {
	if mapped, ok := c.SymbolMap[feedSymbol]; ok {
		return mapped
	}
	return feedSymbol
}
