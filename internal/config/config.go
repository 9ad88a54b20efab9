package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Workbook WorkbookConfig `toml:"workbook"`
	Auth     AuthConfig     `toml:"auth"`
	Columns  ColumnsConfig  `toml:"columns"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 本地数据配置（SQLite 会话/审计库所在目录）
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// WorkbookConfig 共享工作簿配置
type WorkbookConfig struct {
	Path           string `toml:"path"`
	NotasSheet     string `toml:"notas_sheet"`
	DevolucaoSheet string `toml:"devolucao_sheet"`
}

// AuthConfig 登录配置
// Users 即 secrets：用户名 → 口令；AdminUser 指定管理员账号
type AuthConfig struct {
	Users             map[string]string `toml:"users"`
	AdminUser         string            `toml:"admin_user"`
	SessionTTLMinutes int               `toml:"session_ttl_minutes"`
}

// ColumnsConfig 各角色可编辑列（编辑面按此渲染，业务规则不依赖它）
type ColumnsConfig struct {
	ManagerEditable []string `toml:"manager_editable"`
	AdminDisabled   []string `toml:"admin_disabled"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20315,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Workbook: WorkbookConfig{
			Path:           "notas.xlsx",
			NotasSheet:     "Notas",
			DevolucaoSheet: "Devolução",
		},
		Auth: AuthConfig{
			Users:             map[string]string{},
			AdminUser:         "admin",
			SessionTTLMinutes: 480,
		},
		Columns: ColumnsConfig{
			ManagerEditable: []string{"ASSINATURA"},
			AdminDisabled:   []string{"GESTORASSINATURA"},
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
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

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// 配置文件不存在，使用默认配置
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	// 环境变量覆盖（用于 E2E / 本地运行）
	if v := os.Getenv("DMTNOTAS_WORKBOOK_PATH"); v != "" {
		config.Workbook.Path = v
	}
	if v := os.Getenv("DMTNOTAS_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}

	return config, info, nil
}

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir 确保数据目录存在
// 相对路径挂在可执行文件同目录下，绝对路径原样使用
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}
