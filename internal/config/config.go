package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"pcdmanager/internal/model"
)

// ConfigFileName 默认配置文件名
const ConfigFileName = "config.toml"

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Import ImportConfig `toml:"import"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int  `toml:"port"`
	DevMode     bool `toml:"dev_mode"`
	MaxUploadMB int  `toml:"max_upload_mb"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
	DBName  string `toml:"db_name"`
}

// ImportConfig 导入相关配置
type ImportConfig struct {
	DefaultTimezone string `toml:"default_timezone"`
	DefaultLocation string `toml:"default_location"`
	SkipDuplicates  bool   `toml:"skip_duplicates"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // text/json
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string // 实际读取的配置文件，未读取时为空
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        20262,
			DevMode:     false,
			MaxUploadMB: 20,
		},
		Data: DataConfig{
			DataDir: "data",
			DBName:  "pcd.db",
		},
		Import: ImportConfig{
			DefaultTimezone: model.DefaultTimeZone,
			DefaultLocation: "Default",
			SkipDuplicates:  true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultLocation 未指定地点时使用的地点
func (c *AppConfig) DefaultLocation() model.Location {
	return model.Location{Name: c.Import.DefaultLocation, TimeZone: c.Import.DefaultTimezone}
}

// MaxUploadBytes 上传文件大小上限
func (c *AppConfig) MaxUploadBytes() int64 {
	if c.Server.MaxUploadMB <= 0 {
		return 20 << 20
	}
	return int64(c.Server.MaxUploadMB) << 20
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverMap, ok := raw["server"].(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

func exeDirOrCwd() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		return "."
	}
	return exeDir
}

// LoadConfigWithInfo 从可执行文件同目录的 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadConfigFrom(filepath.Join(exeDirOrCwd(), ConfigFileName))
}

// LoadConfigFrom 从指定路径加载配置；文件不存在时使用默认配置
// 之后依次应用 .env 与 PCD_ 环境变量覆盖
func LoadConfigFrom(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.Path = path
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, fmt.Errorf("failed to read %s: %w", path, err)
	}

	// .env 只补充未设置的环境变量
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	portFromEnv, err := applyEnv(config)
	if err != nil {
		return nil, info, err
	}
	if portFromEnv {
		info.PortSpecified = true
	}

	return config, info, nil
}

// applyEnv 环境变量覆盖，返回端口是否由环境变量指定
func applyEnv(config *AppConfig) (bool, error) {
	portSet := false
	if v := os.Getenv("PCD_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return false, fmt.Errorf("invalid PCD_PORT %q", v)
		}
		config.Server.Port = port
		portSet = true
	}
	if v := os.Getenv("PCD_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("PCD_DEFAULT_TIMEZONE"); v != "" {
		config.Import.DefaultTimezone = v
	}
	if v := os.Getenv("PCD_LOG_LEVEL"); v != "" {
		config.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("PCD_SKIP_DUPLICATES"); v != "" {
		skip, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("invalid PCD_SKIP_DUPLICATES %q", v)
		}
		config.Import.SkipDuplicates = skip
	}
	return portSet, nil
}

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到指定路径
func SaveConfig(config *AppConfig, path string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// resolveDataDir 相对路径以可执行文件目录为基准
func resolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	return filepath.Join(exeDirOrCwd(), config.Data.DataDir)
}

// EnsureDataDir 确保数据目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := resolveDataDir(config)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}

// DBPath 数据库文件路径
func DBPath(config *AppConfig) string {
	return filepath.Join(resolveDataDir(config), config.Data.DBName)
}
