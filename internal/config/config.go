package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	Env     string `yaml:"env"`
	GinMode string `yaml:"gin_mode"`
	BaseURL string `yaml:"base_url"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret      string `yaml:"secret"`
	Issuer      string `yaml:"issuer"`
	SessionDays int    `yaml:"session_days"`
}

type OTPConfig struct {
	TTL          string `yaml:"ttl"`
	Length       int    `yaml:"length"`
	MaxAttempts  int    `yaml:"max_attempts"`
	ResendWindow string `yaml:"resend_window"`
}

type LinkConfig struct {
	TTL string `yaml:"ttl"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

type GoogleConfig struct {
	ClientID string `yaml:"client_id"`
}

type AgreementConfig struct {
	MinAmountCents int64  `yaml:"min_amount_cents"`
	IssuerName     string `yaml:"issuer_name"`
	IssuerTitle    string `yaml:"issuer_title"`
	CompanyName    string `yaml:"company_name"`
}

type ReferralConfig struct {
	InviteTTLDays int `yaml:"invite_ttl_days"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	OTP       OTPConfig       `yaml:"otp"`
	Link      LinkConfig      `yaml:"link"`
	Twilio    TwilioConfig    `yaml:"twilio"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	Google    GoogleConfig    `yaml:"google"`
	Agreement AgreementConfig `yaml:"agreement"`
	Referral  ReferralConfig  `yaml:"referral"`
	Casbin    CasbinConfig    `yaml:"casbin"`
}

type Config struct {
	Port             string
	Env              string
	GinMode          string
	BaseURL          string
	DSN              string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	JWTSecret        string
	JWTIssuer        string
	SessionTTL       time.Duration
	OTP_TTL          time.Duration
	OTP_Length       int
	OTP_MaxAttempts  int
	OTP_ResendWindow time.Duration
	LinkTTL          time.Duration
	InviteTTL        time.Duration
	TwilioSID        string
	TwilioToken      string
	TwilioFrom       string
	SendGridAPIKey   string
	SendGridFrom     string
	SendGridFromName string
	GoogleClientID   string
	MinAmountCents   int64
	IssuerName       string
	IssuerTitle      string
	CompanyName      string
	CasbinModelPath  string
}

// IsProduction reports whether session cookies must carry the Secure flag.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	return LoadFrom(env("CONFIG_PATH", "config/config.yml"))
}

func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	otpTTL, err := time.ParseDuration(configFile.OTP.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}

	resWnd, err := time.ParseDuration(configFile.OTP.ResendWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP resend window: %w", err)
	}

	linkTTL, err := time.ParseDuration(configFile.Link.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid link TTL: %w", err)
	}

	sessionDays := configFile.JWT.SessionDays
	if sessionDays <= 0 {
		sessionDays = 30
	}

	inviteDays := configFile.Referral.InviteTTLDays
	if inviteDays <= 0 {
		inviteDays = 30
	}

	minAmount := configFile.Agreement.MinAmountCents
	if minAmount <= 0 {
		minAmount = 2_500_000 // $25,000
	}

	return &Config{
		Port:             fmt.Sprintf("%d", configFile.App.Port),
		Env:              env("APP_ENV", configFile.App.Env),
		GinMode:          configFile.App.GinMode,
		BaseURL:          env("BASE_URL", configFile.App.BaseURL),
		DSN:              env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:        env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:    env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:          configFile.Redis.DB,
		JWTSecret:        env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:        configFile.JWT.Issuer,
		SessionTTL:       time.Duration(sessionDays) * 24 * time.Hour,
		OTP_TTL:          otpTTL,
		OTP_Length:       configFile.OTP.Length,
		OTP_MaxAttempts:  configFile.OTP.MaxAttempts,
		OTP_ResendWindow: resWnd,
		LinkTTL:          linkTTL,
		InviteTTL:        time.Duration(inviteDays) * 24 * time.Hour,
		TwilioSID:        env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken:      env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:       env("TWILIO_FROM_NUMBER", configFile.Twilio.FromNumber),
		SendGridAPIKey:   env("SENDGRID_API_KEY", configFile.SendGrid.APIKey),
		SendGridFrom:     configFile.SendGrid.FromEmail,
		SendGridFromName: configFile.SendGrid.FromName,
		GoogleClientID:   env("GOOGLE_CLIENT_ID", configFile.Google.ClientID),
		MinAmountCents:   minAmount,
		IssuerName:       configFile.Agreement.IssuerName,
		IssuerTitle:      configFile.Agreement.IssuerTitle,
		CompanyName:      configFile.Agreement.CompanyName,
		CasbinModelPath:  configFile.Casbin.ModelPath,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
