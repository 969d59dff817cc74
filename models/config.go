package models

// Config 構造体はサーバーとデータベース接続の設定情報を保持します。
// config.json の値を環境変数で上書きできます。
type Config struct {
	ListenAddr    string `json:"listen_addr" env:"DARTS_LISTEN_ADDR"`
	StartingScore int    `json:"starting_score" env:"DARTS_STARTING_SCORE"`
	ScorerPIN     string `json:"scorer_pin" env:"DARTS_SCORER_PIN"`
	JWTSecret     string `json:"jwt_secret" env:"DARTS_JWT_SECRET"`
	Debug         bool   `json:"debug" env:"DARTS_DEBUG"`

	AllowOrigins []string `json:"allow_origins" env:"DARTS_ALLOW_ORIGINS" envSeparator:","`

	DBHost     string `json:"db_host" env:"DB_HOST"`
	DBUser     string `json:"db_user" env:"DB_USER"`
	DBPassword string `json:"db_password" env:"DB_PASSWORD"`
	DBName     string `json:"db_name" env:"DB_NAME"`
	DBSSLMode  string `json:"db_sslmode" env:"DB_SSLMODE"`

	// 保存済み対戦記録の保持日数
	ArchiveRetentionDays int `json:"archive_retention_days" env:"DARTS_ARCHIVE_RETENTION_DAYS"`
}

// RedisConfig はセッション復旧用のRedis接続情報
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}
