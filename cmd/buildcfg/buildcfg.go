// Package buildcfg assembles typed component configs from config.yaml
// and the environment. Credentials are environment-only: the yaml file
// never carries gateway, SMTP, Twilio or admin secrets.
package buildcfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"

	"eventpay/internal/gateway"
	"eventpay/internal/mailer"
	"eventpay/internal/whatsapp"
)

type ServerConfig struct {
	Host string
	Port string
}

type RabbitConfig struct {
	URL      string
	Exchange string
	Queue    string
}

type AdminSeed struct {
	Email    string
	Password string
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) ServerConfig {
	sc := ServerConfig{
		Host: pick(os.Getenv("HOST"), cfg.GetString("server.host"), "0.0.0.0"),
		Port: pick(os.Getenv("PORT"), cfg.GetString("server.port"), "4000"),
	}
	log.Info().Str("host", sc.Host).Str("port", sc.Port).Msg("server config built")
	return sc
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, *dbpg.Options, error) {
	host := pick(os.Getenv("DB_HOST"), cfg.GetString("database.host"), "localhost")
	port := pick(os.Getenv("DB_PORT"), cfg.GetString("database.port"), "5432")
	user := pick(os.Getenv("DB_USER"), cfg.GetString("database.user"), "postgres")
	password := pick(os.Getenv("DB_PASSWORD"), cfg.GetString("database.password"), "")
	name := pick(os.Getenv("DB_NAME"), cfg.GetString("database.name"), "eventpay")

	if password == "" {
		return "", nil, fmt.Errorf("database password is not configured")
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	opts := &dbpg.Options{
		MaxOpenConns:    pickInt(cfg.GetInt("database.max_open_conns"), 10),
		MaxIdleConns:    pickInt(cfg.GetInt("database.max_idle_conns"), 5),
		ConnMaxLifetime: time.Duration(pickInt(cfg.GetInt("database.conn_max_lifetime_minutes"), 30)) * time.Minute,
	}

	log.Info().Str("host", host).Str("db", name).Msg("database config built")
	return dsn, opts, nil
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (RabbitConfig, error) {
	rc := RabbitConfig{
		URL:      pick(os.Getenv("RABBIT_URL"), cfg.GetString("rabbit.url"), ""),
		Exchange: pick(cfg.GetString("rabbit.exchange"), "", "notifications.delayed"),
		Queue:    pick(cfg.GetString("rabbit.queue"), "", "notifications"),
	}
	if rc.URL == "" {
		return rc, fmt.Errorf("rabbit URL is not configured")
	}
	log.Info().Str("exchange", rc.Exchange).Str("queue", rc.Queue).Msg("rabbit config built")
	return rc, nil
}

func BuildGatewayConfig(log *zerolog.Logger) gateway.Config {
	gc := gateway.Config{
		KeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		KeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
	}
	if gc.KeyID == "" || gc.KeySecret == "" {
		log.Warn().Msg("payment gateway credentials absent, order creation will fail")
	}
	return gc
}

func BuildMailConfig(log *zerolog.Logger) mailer.Config {
	mc := mailer.Config{
		URL:      os.Getenv("SMTP_URL"),
		Host:     os.Getenv("SMTP_HOST"),
		Secure:   parseBool(os.Getenv("SMTP_SECURE")),
		Username: pick(os.Getenv("SMTP_USER"), os.Getenv("EMAIL_USER"), ""),
		Password: pick(os.Getenv("SMTP_PASS"), os.Getenv("EMAIL_PASS"), ""),
		Service:  os.Getenv("EMAIL_SERVICE"),
		From:     os.Getenv("EMAIL_FROM"),
	}
	if p := os.Getenv("SMTP_PORT"); p != "" {
		if port, err := strconv.Atoi(p); err == nil {
			mc.Port = port
		} else {
			log.Warn().Str("value", p).Msg("invalid SMTP_PORT ignored")
		}
	}
	return mc
}

func BuildWhatsAppConfig(log *zerolog.Logger) whatsapp.Config {
	wc := whatsapp.Config{
		AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		From:       os.Getenv("TWILIO_WHATSAPP_FROM"),
	}
	if wc.AccountSID == "" || wc.AuthToken == "" {
		log.Warn().Msg("messaging gateway credentials absent, WhatsApp sends will fail")
	}
	return wc
}

// BuildFrontendOrigin serves both the CORS allow-list and the fallback
// join link in emails.
func BuildFrontendOrigin(cfg *config.Config) string {
	return pick(os.Getenv("FRONTEND_ORIGIN"), cfg.GetString("frontend.origin"), "")
}

func BuildAdminSeed() AdminSeed {
	return AdminSeed{
		Email:    os.Getenv("ADMIN_EMAIL"),
		Password: os.Getenv("ADMIN_PASSWORD"),
	}
}

func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func pickInt(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes":
		return true
	}
	return false
}
