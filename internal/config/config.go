// Package config loads runtime configuration from the environment.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything both Lambdas read at startup.
type Config struct {
	LogLevel string

	OrdersTable          string
	CustomersTable       string
	ProductsTable        string
	FeaturedTable        string
	NotificationLogTable string
	AdminUsersTable      string
	IdempotencyTable     string

	OrderEventsQueueURL string

	MailSecretName      string
	StoreBaseURL        string
	TrackingBaseURL     string
	PlaceholderImageURL string
	SupportEmail        string
}

// Load reads configuration from environment variables, applying defaults
// for everything that has a sensible one. Table names and the queue URL
// have no defaults worth having but are left empty rather than erroring so
// local tooling can construct partial configs.
func Load() *Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ORDERS_TABLE", "orders")
	v.SetDefault("CUSTOMERS_TABLE", "customers")
	v.SetDefault("PRODUCTS_TABLE", "products")
	v.SetDefault("FEATURED_PRODUCTS_TABLE", "featured_products")
	v.SetDefault("NOTIFICATION_LOG_TABLE", "notification_log")
	v.SetDefault("ADMIN_USERS_TABLE", "admin_users")
	v.SetDefault("IDEMPOTENCY_TABLE", "idempotency")
	v.SetDefault("MAIL_SECRET_NAME", "roastery/mail")
	v.SetDefault("STORE_BASE_URL", "https://shop.roastery.in")
	v.SetDefault("TRACKING_BASE_URL", "https://track.roastery.in/t")
	v.SetDefault("PLACEHOLDER_IMAGE_URL", "https://shop.roastery.in/static/placeholder-bag.png")
	v.SetDefault("SUPPORT_EMAIL", "support@roastery.in")

	return &Config{
		LogLevel:             v.GetString("LOG_LEVEL"),
		OrdersTable:          v.GetString("ORDERS_TABLE"),
		CustomersTable:       v.GetString("CUSTOMERS_TABLE"),
		ProductsTable:        v.GetString("PRODUCTS_TABLE"),
		FeaturedTable:        v.GetString("FEATURED_PRODUCTS_TABLE"),
		NotificationLogTable: v.GetString("NOTIFICATION_LOG_TABLE"),
		AdminUsersTable:      v.GetString("ADMIN_USERS_TABLE"),
		IdempotencyTable:     v.GetString("IDEMPOTENCY_TABLE"),
		OrderEventsQueueURL:  v.GetString("ORDER_EVENTS_QUEUE_URL"),
		MailSecretName:       v.GetString("MAIL_SECRET_NAME"),
		StoreBaseURL:         v.GetString("STORE_BASE_URL"),
		TrackingBaseURL:      v.GetString("TRACKING_BASE_URL"),
		PlaceholderImageURL:  v.GetString("PLACEHOLDER_IMAGE_URL"),
		SupportEmail:         v.GetString("SUPPORT_EMAIL"),
	}
}
