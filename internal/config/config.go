package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Mongo   MongoConfig
	Rabbit  RabbitConfig  `mapstructure:"rabbit"`
	Grading GradingConfig `mapstructure:"grading"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type MongoConfig struct {
	URI      string
	Database string
}

type RabbitConfig struct {
	URI      string
	Exchange string
}

// GradingConfig points at the external grading capability. Any
// OpenAI-compatible endpoint works.
type GradingConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	File string
}

// Load reads config.yaml from path with environment overrides.
func Load(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("ASSESSMENT")
	viper.AutomaticEnv()

	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.mode", "SERVER_MODE")
	viper.BindEnv("mongo.uri", "MONGO_URI")
	viper.BindEnv("mongo.database", "MONGO_DATABASE")
	viper.BindEnv("rabbit.uri", "RABBITMQ_URI")
	viper.BindEnv("rabbit.exchange", "RABBITMQ_EXCHANGE")
	viper.BindEnv("grading.base_url", "GRADING_BASE_URL")
	viper.BindEnv("grading.api_key", "GRADING_API_KEY")
	viper.BindEnv("grading.model", "GRADING_MODEL")

	viper.SetDefault("server.port", "8086")
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("mongo.database", "assessment_service")
	viper.SetDefault("log.file", "logs/app.log")

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional when everything comes from env.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
