package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig         `mapstructure:"server"`
	App           AppConfig            `mapstructure:"app"`
	Database      DatabaseConfig       `mapstructure:"database"`
	Redis         RedisConfig          `mapstructure:"redis"`
	Log           LogConfig            `mapstructure:"log"`
	AES           AESConfig            `mapstructure:"aes"`
	JWT           JWTConfig            `mapstructure:"jwt"`
	Ledger        LedgerConfig         `mapstructure:"ledger"`
	Stripe        StripeConfig         `mapstructure:"stripe"`
	PayPal        PayPalConfig         `mapstructure:"paypal"`
	GoCardless    GoCardlessConfig     `mapstructure:"gocardless"`
	CRM           CRMConfig            `mapstructure:"crm"`
	Mailchimp     MailchimpConfig      `mapstructure:"mailchimp"`
	Mandrill      MandrillConfig       `mapstructure:"mandrill"`
	ThankYou      ThankYouConfig       `mapstructure:"thank_you"`
	CampaignHooks []CampaignHookConfig `mapstructure:"campaign_hooks"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// AppConfig describes the deployment this process runs in.
type AppConfig struct {
	Environment string `mapstructure:"environment"` // production, staging, development
	OriginTag   string `mapstructure:"origin_tag"`  // metadata.origin value stamped by the donation app
}

// IsProduction reports whether provider calls with real side effects are allowed.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Environment, "production")
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

type AESConfig struct {
	Key string `mapstructure:"key"` // 32-byte hex-encoded key; empty stores ledger snapshots unencrypted
}

// JWTConfig configures operator bearer tokens for the ledger API.
type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type LedgerConfig struct {
	ClaimTTL        time.Duration `mapstructure:"claim_ttl"`
	StatusCacheTTL  time.Duration `mapstructure:"status_cache_ttl"`
	GiftAidGuardTTL time.Duration `mapstructure:"gift_aid_guard_ttl"` // how long a declared transaction id is remembered
}

type StripeConfig struct {
	APIKey           string        `mapstructure:"api_key"`
	BaseURL          string        `mapstructure:"base_url"`
	WebhookSecret    string        `mapstructure:"webhook_secret"`
	SignatureMaxSkew time.Duration `mapstructure:"signature_max_skew"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

// PayPalConfig configures the capture relay sent by the donation app.
type PayPalConfig struct {
	RelaySecret string `mapstructure:"relay_secret"`
}

type GoCardlessConfig struct {
	AccessToken   string        `mapstructure:"access_token"`
	BaseURL       string        `mapstructure:"base_url"`
	WebhookSecret string        `mapstructure:"webhook_secret"`
	Sandbox       bool          `mapstructure:"sandbox"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// CRMInstanceConfig holds the credentials for one regional Donorfy tenant.
type CRMInstanceConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Tenant  string `mapstructure:"tenant"`
}

// Enabled reports whether the instance has enough configuration to build a client.
func (c CRMInstanceConfig) Enabled() bool {
	return c.APIKey != "" && c.Tenant != ""
}

type CRMConfig struct {
	UK           CRMInstanceConfig `mapstructure:"uk"`
	US           CRMInstanceConfig `mapstructure:"us"`
	ROW          CRMInstanceConfig `mapstructure:"row"`
	Sandbox      CRMInstanceConfig `mapstructure:"sandbox"`
	ForceSandbox bool              `mapstructure:"force_sandbox"`
	Timeout      time.Duration     `mapstructure:"timeout"`
}

type MailchimpConfig struct {
	APIKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"` // e.g. https://us21.api.mailchimp.com/3.0
	ListUK      string `mapstructure:"list_uk"`
	ListUS      string `mapstructure:"list_us"`
	ListROW     string `mapstructure:"list_row"`
	ListSandbox string `mapstructure:"list_sandbox"`
}

type MandrillConfig struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	FromEmail    string `mapstructure:"from_email"`
	FromName     string `mapstructure:"from_name"`
	AdminAddress string `mapstructure:"admin_address"`
}

type ThankYouConfig struct {
	TemplateGBP       string   `mapstructure:"template_gbp"`
	TemplateUSD       string   `mapstructure:"template_usd"`
	TemplateDefault   string   `mapstructure:"template_default"`
	ExcludedCampaigns []string `mapstructure:"excluded_campaigns"`
}

// CampaignHookConfig declares campaign-specific side effects.
type CampaignHookConfig struct {
	Campaign      string   `mapstructure:"campaign"`
	Tags          []string `mapstructure:"tags"`
	DonorTemplate string   `mapstructure:"donor_template"`
	AdminTemplate string   `mapstructure:"admin_template"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: DRC_ (Donor ReConciler).
// Nested keys use underscore: DRC_DATABASE_HOST, DRC_CRM_UK_API_KEY, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.origin_tag", "donation-app")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "donor_reconciler")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("aes.key", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "8h")
	v.SetDefault("jwt.issuer", "donor-reconciler")
	v.SetDefault("ledger.claim_ttl", "5m")
	v.SetDefault("ledger.status_cache_ttl", "72h")
	v.SetDefault("ledger.gift_aid_guard_ttl", "24h")
	v.SetDefault("stripe.api_key", "")
	v.SetDefault("stripe.base_url", "https://api.stripe.com")
	v.SetDefault("stripe.webhook_secret", "")
	v.SetDefault("stripe.signature_max_skew", "5m")
	v.SetDefault("stripe.timeout", "10s")
	v.SetDefault("paypal.relay_secret", "")
	v.SetDefault("gocardless.access_token", "")
	v.SetDefault("gocardless.base_url", "https://api.gocardless.com")
	v.SetDefault("gocardless.webhook_secret", "")
	v.SetDefault("gocardless.sandbox", false)
	v.SetDefault("gocardless.timeout", "10s")
	for _, region := range []string{"uk", "us", "row", "sandbox"} {
		v.SetDefault("crm."+region+".base_url", "https://data.donorfy.com/api/v1")
		v.SetDefault("crm."+region+".api_key", "")
		v.SetDefault("crm."+region+".tenant", "")
		v.SetDefault("mailchimp.list_"+region, "")
	}
	v.SetDefault("crm.force_sandbox", false)
	v.SetDefault("crm.timeout", "15s")
	v.SetDefault("mailchimp.api_key", "")
	v.SetDefault("mailchimp.base_url", "")
	v.SetDefault("mandrill.api_key", "")
	v.SetDefault("mandrill.base_url", "https://mandrillapp.com/api/1.0")
	v.SetDefault("mandrill.from_email", "")
	v.SetDefault("mandrill.from_name", "")
	v.SetDefault("mandrill.admin_address", "")
	v.SetDefault("thank_you.template_gbp", "thank-you-uk")
	v.SetDefault("thank_you.template_usd", "thank-you-us")
	v.SetDefault("thank_you.template_default", "thank-you-row")
	v.SetDefault("thank_you.excluded_campaigns", []string{})

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: DRC_DATABASE_HOST -> database.host
	v.SetEnvPrefix("DRC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
