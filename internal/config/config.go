package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"shop/admin/internal/media"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Seed     SeedConfig     `mapstructure:"seed"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Bucket               string `mapstructure:"bucket"`
	KeyPrefix            string `mapstructure:"key_prefix"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
}

// Range is a closed integer range used by the sampling knobs.
type Range struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

// SeedConfig holds every knob of the synthetic catalog generator.
type SeedConfig struct {
	ProductsPerCategory       Range                  `mapstructure:"products_per_category"`
	ItemsPerProduct           Range                  `mapstructure:"items_per_product"`
	ColorsPerItem             Range                  `mapstructure:"colors_per_item"`
	ImagesPerItem             Range                  `mapstructure:"images_per_item"`
	CharacteristicsPerProduct Range                  `mapstructure:"characteristics_per_product"`
	CharacteristicValues      Range                  `mapstructure:"characteristic_values"`
	Price                     Range                  `mapstructure:"price"`
	Concurrency               int                    `mapstructure:"concurrency"`
	JobTimeout                time.Duration          `mapstructure:"job_timeout"`
	ColorThreshold            float64                `mapstructure:"color_threshold"`
	BannedColors              []string               `mapstructure:"banned_colors"`
	NonPhysicalColors         []string               `mapstructure:"non_physical_colors"`
	DefaultColor              string                 `mapstructure:"default_color"`
	FootwearSlugs             []string               `mapstructure:"footwear_slugs"`
	Derivatives               []media.DerivativeSpec `mapstructure:"derivatives"`
	JPEGQuality               int                    `mapstructure:"jpeg_quality"`
	ReferenceImageSize        int                    `mapstructure:"reference_image_size"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if len(config.Seed.Derivatives) == 0 {
		config.Seed.Derivatives = media.DefaultDerivatives
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "localhost")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "shop")
	viper.SetDefault("database.user", "shop_user")
	viper.SetDefault("database.password", "shop_pass")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)

	viper.SetDefault("storage.bucket", "shop-product-images")
	viper.SetDefault("storage.key_prefix", "products")
	viper.SetDefault("storage.max_requests_per_second", 50)

	viper.SetDefault("seed.products_per_category.min", 2)
	viper.SetDefault("seed.products_per_category.max", 3)
	viper.SetDefault("seed.items_per_product.min", 1)
	viper.SetDefault("seed.items_per_product.max", 5)
	viper.SetDefault("seed.colors_per_item.min", 1)
	viper.SetDefault("seed.colors_per_item.max", 3)
	viper.SetDefault("seed.images_per_item.min", 1)
	viper.SetDefault("seed.images_per_item.max", 1)
	viper.SetDefault("seed.characteristics_per_product.min", 1)
	viper.SetDefault("seed.characteristics_per_product.max", 3)
	viper.SetDefault("seed.characteristic_values.min", 1)
	viper.SetDefault("seed.characteristic_values.max", 3)
	viper.SetDefault("seed.price.min", 100)
	viper.SetDefault("seed.price.max", 10000)
	viper.SetDefault("seed.concurrency", 8)
	viper.SetDefault("seed.job_timeout", "2m")
	viper.SetDefault("seed.color_threshold", 30.0)
	viper.SetDefault("seed.banned_colors", []string{"transparent", "multicolor", "silver", "gold"})
	viper.SetDefault("seed.non_physical_colors", []string{"multicolor", "transparent"})
	viper.SetDefault("seed.default_color", "white")
	viper.SetDefault("seed.footwear_slugs", []string{"shoes"})
	viper.SetDefault("seed.jpeg_quality", 100)
	viper.SetDefault("seed.reference_image_size", 1024)
}
