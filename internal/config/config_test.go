package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Port:               "8080",
		RateLimitPerMinute: 120,
		DataBackend:        "memory",
		AMQPExchange:       "ledger",
		AMQPQueue:          "expense_created",
		GoogleSheetName:    "Expenses",
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"non-numeric port", func(c *Config) { c.Port = "abc" }, "invalid port 'abc'"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "must be between 1 and 65535"},
		{"zero rate limit", func(c *Config) { c.RateLimitPerMinute = 0 }, "invalid rate limit"},
		{"unknown backend", func(c *Config) { c.DataBackend = "postgres" }, "invalid data backend 'postgres'"},
		{"empty sqlite path", func(c *Config) { c.DataBackend = "sqlite"; c.SQLiteDBPath = "" }, "SQLite database path cannot be empty"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://localhost:5672" }, "invalid AMQP URL scheme 'http'"},
		{"empty exchange with amqp", func(c *Config) { c.AMQPURL = "amqp://localhost:5672"; c.AMQPExchange = "" }, "exchange name cannot be empty"},
		{"empty queue with amqp", func(c *Config) { c.AMQPURL = "amqp://localhost:5672"; c.AMQPQueue = "" }, "queue name cannot be empty"},
		{"spreadsheet without sheet name", func(c *Config) { c.GoogleSpreadsheetID = "sheet-id"; c.GoogleSheetName = "" }, "sheet name cannot be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	c := validConfig()
	c.Port = "abc"
	c.RateLimitPerMinute = -1
	c.DataBackend = "postgres"

	err := c.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"invalid port", "invalid rate limit", "invalid data backend"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %q", want, err.Error())
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_BACKEND", "RATE_LIMIT_PER_MINUTE", "AMQP_EXCHANGE", "AMQP_QUEUE"} {
		t.Setenv(key, "")
	}

	c := Load()
	if c.Port != "8080" {
		t.Fatalf("port default = %q", c.Port)
	}
	if c.DataBackend != "sqlite" {
		t.Fatalf("backend default = %q", c.DataBackend)
	}
	if c.RateLimitPerMinute != 120 {
		t.Fatalf("rate limit default = %d", c.RateLimitPerMinute)
	}
	if c.AMQPExchange != "ledger" || c.AMQPQueue != "expense_created" {
		t.Fatalf("amqp defaults = %q/%q", c.AMQPExchange, c.AMQPQueue)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")

	c := Load()
	if c.Port != "9090" || c.DataBackend != "memory" || c.RateLimitPerMinute != 30 {
		t.Fatalf("overrides not applied: %+v", c)
	}
}
