package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// ErrCodeInvalid 表示配置值不合法（校验失败或无法解析）。
	ErrCodeInvalid = "config_invalid"
	// ErrCodeUnreadable 表示配置文件存在但无法读取/解析。
	ErrCodeUnreadable = "config_unreadable"
)

const (
	// FileName 是工作目录下可选配置文件的文件名。
	FileName = "movierec.yaml"
	// PathEnvVar 可显式指定配置文件路径（优先于 <cwd>/movierec.yaml）。
	PathEnvVar = "MOVIEREC_CONFIG"
	// DotEnvName 是工作目录下可选的 .env 文件。
	DotEnvName = ".env"
)

// Config 是合并并校验后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type Config struct {
	// APIKey 为空时必须在交互提示中输入；非空时作为“直接回车”的默认值。
	APIKey   string `koanf:"api_key"`
	BaseURL  string `koanf:"base_url" validate:"required,url"`
	Language string `koanf:"language" validate:"required"`

	// Limit 是单个 criterion 的条数；AllLimit 是“全部推荐”时每个 criterion 的条数。
	// 上限 20 即远端单页大小。
	Limit    int `koanf:"limit" validate:"min=1,max=20"`
	AllLimit int `koanf:"all_limit" validate:"min=1,max=20"`

	Timeout       time.Duration `koanf:"timeout" validate:"gt=0s"`
	RatePerSecond float64       `koanf:"rate_per_second" validate:"gte=0"`
	ProxyURL      string        `koanf:"proxy_url" validate:"omitempty,url"`

	Log LogConfig `koanf:"log"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=console json"`
}

// Default 返回内置默认值。
func Default() Config {
	return Config{
		BaseURL:       "https://api.themoviedb.org/3",
		Language:      "en-US",
		Limit:         10,
		AllLimit:      5,
		Timeout:       15 * time.Second,
		RatePerSecond: 4,
		Log: LogConfig{
			Level:  "error",
			Format: "console",
		},
	}
}

// Error 是配置阶段的结构化错误（带 error code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeUnreadable:
		return fmt.Sprintf("%s：配置文件 %q 无法读取：%v", e.Code, e.Path, e.Err)
	case ErrCodeInvalid:
		if e.Path != "" {
			return fmt.Sprintf("%s：配置 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置无效：%v", e.Code, e.Err)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// envKeys 把环境变量映射到配置路径；未列出的变量一律忽略。
var envKeys = map[string]string{
	"TMDB_API_KEY":             "api_key",
	"TMDB_BASE_URL":            "base_url",
	"MOVIEREC_LANGUAGE":        "language",
	"MOVIEREC_LIMIT":           "limit",
	"MOVIEREC_ALL_LIMIT":       "all_limit",
	"MOVIEREC_TIMEOUT":         "timeout",
	"MOVIEREC_RATE_PER_SECOND": "rate_per_second",
	"MOVIEREC_PROXY_URL":       "proxy_url",
	"MOVIEREC_LOG_LEVEL":       "log.level",
	"MOVIEREC_LOG_FORMAT":      "log.format",
}

func envTransform(key string) string {
	return envKeys[strings.ToUpper(key)]
}

var validate = validator.New()

// Load 按固定顺序分层读取配置：
//
// 1) 内置默认值
// 2) 配置文件（可选）：$MOVIEREC_CONFIG，否则 <cwd>/movierec.yaml
// 3) 环境变量（最高优先级）；<cwd>/.env 会先被载入，但不覆盖已存在的环境变量
//
// 显式指定的 $MOVIEREC_CONFIG 不存在时报错；默认位置不存在则跳过。
func Load(cwd string) (Config, error) {
	dotenv := filepath.Join(cwd, DotEnvName)
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, &Error{Code: ErrCodeUnreadable, Path: dotenv, Err: err}
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, &Error{Code: ErrCodeInvalid, Err: err}
	}

	cfgPath, err := findConfigFile(cwd)
	if err != nil {
		return Config{}, err
	}
	if cfgPath != "" {
		if err := k.Load(file.Provider(cfgPath), yaml.Parser()); err != nil {
			return Config{}, &Error{Code: ErrCodeUnreadable, Path: cfgPath, Err: err}
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return Config{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	normalize(&cfg)

	if err := validate.Struct(cfg); err != nil {
		return Config{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	return cfg, nil
}

func findConfigFile(cwd string) (string, error) {
	if p := strings.TrimSpace(os.Getenv(PathEnvVar)); p != "" {
		if !filepath.IsAbs(p) {
			p = filepath.Join(cwd, p)
		}
		if _, err := os.Stat(p); err != nil {
			return "", &Error{Code: ErrCodeUnreadable, Path: p, Err: err}
		}
		return p, nil
	}
	p := filepath.Join(cwd, FileName)
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", &Error{Code: ErrCodeUnreadable, Path: p, Err: err}
	}
	return p, nil
}

func normalize(c *Config) {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.Language = strings.TrimSpace(c.Language)
	c.ProxyURL = strings.TrimSpace(c.ProxyURL)
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
}
