package config

import (
	"errors"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/moyu-x/duplicate-finder/internal"
)

type Config struct {
	Scanner struct {
		Recursive      bool
		MinSize        int64 `mapstructure:"min_size"`
		IncludeHidden  bool  `mapstructure:"include_hidden"`
		FollowSymlinks bool  `mapstructure:"follow_symlinks"`
	}
	Hasher struct {
		Algorithm string
		ChunkSize int `mapstructure:"chunk_size"`
	}
	Performance struct {
		Workers int
	}
	Logging struct {
		Level string
		File  string
	}
}

var cfg Config

// Load 按默认搜索路径加载配置
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile 加载配置，file 为空时在默认目录中查找 config.yaml
// 配置文件不存在不算错误，使用默认值
func LoadFile(file string) (*Config, error) {
	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath("$HOME/.duplicate-finder")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/duplicate-finder")
	}

	v.SetEnvPrefix("DUPFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var loaded Config
	if err := v.Unmarshal(&loaded); err != nil {
		return nil, err
	}

	if loaded.Performance.Workers <= 0 {
		loaded.Performance.Workers = runtime.NumCPU()
	}
	if loaded.Hasher.ChunkSize < internal.MinChunkSize {
		loaded.Hasher.ChunkSize = internal.MinChunkSize
	}

	cfg = loaded
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scanner.recursive", true)
	v.SetDefault("scanner.min_size", 0)
	v.SetDefault("scanner.include_hidden", true)
	v.SetDefault("scanner.follow_symlinks", false)
	v.SetDefault("hasher.algorithm", internal.DefaultAlgorithm)
	v.SetDefault("hasher.chunk_size", internal.DefaultChunkSize)
	v.SetDefault("performance.workers", runtime.NumCPU())
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
}

func Get() *Config {
	return &cfg
}
