package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 服務設定
type Config struct {
	GRPC GRPCConfig `yaml:"grpc"`
	HTTP HTTPConfig `yaml:"http"`
	Log  LogConfig  `yaml:"log"`
}

// GRPCConfig gRPC Server 設定
type GRPCConfig struct {
	Addr string `yaml:"addr"`
}

// HTTPConfig REST Server (fiber) 設定
type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// LogConfig 日誌設定
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// 環境變數 (優先於 yaml)
const (
	EnvGRPCAddr  = "POINT_GRPC_ADDR"
	EnvHTTPAddr  = "POINT_HTTP_ADDR"
	EnvLogLevel  = "POINT_LOG_LEVEL"
	EnvLogFormat = "POINT_LOG_FORMAT"
)

// Load 讀取設定
//
// 順序: yaml 檔 -> 預設值補全 -> dotenv 檔 (不存在則略過) -> 環境變數覆寫
//
// 參數:
//
//	path: yaml 檔路徑
//	dotenv: .env 檔路徑，空字串表示不載入
//
// 回傳:
//
//	Config: 設定
//	error: 檔案讀取或解析錯誤
func Load(path, dotenv string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	cfg.applyDefaults()

	if dotenv != "" {
		// godotenv 不會覆蓋已存在的環境變數
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyDefaults 補全預設配置 (如果 yaml 沒寫)
func (c *Config) applyDefaults() {
	if c.GRPC.Addr == "" {
		c.GRPC.Addr = ":50051"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 5 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 5 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

func (c *Config) applyEnv() {
	c.GRPC.Addr = getEnv(EnvGRPCAddr, c.GRPC.Addr)
	c.HTTP.Addr = getEnv(EnvHTTPAddr, c.HTTP.Addr)
	c.Log.Level = getEnv(EnvLogLevel, c.Log.Level)
	c.Log.Format = getEnv(EnvLogFormat, c.Log.Format)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
