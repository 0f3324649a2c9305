// Package cli passdown-import 命令行：离线执行解析、预览、导入与目录初始化
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pcdmanager/internal/config"
	"pcdmanager/internal/logging"
	"pcdmanager/internal/model"
	"pcdmanager/internal/store"
)

// app 各子命令共享的全局参数与运行环境
type app struct {
	configPath string
	dbPath     string
	logLevel   string
	location   string
	timezone   string

	cfg    *config.AppConfig
	logger *slog.Logger
}

// RootCmd 构造根命令
func RootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "passdown-import",
		Short: "Import passdown spreadsheets into PCD Manager",
		Long: `passdown-import runs the three passdown import stages against a workbook:
parse (token review), preview (resolved and dated entries) and import (commit).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to config.toml (default: next to the executable)")
	flags.StringVar(&a.dbPath, "db", "", "SQLite database path (default: data dir from config)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.location, "location", "", "location name (default from config)")
	flags.StringVar(&a.timezone, "timezone", "", "IANA time zone of the location (default from config)")

	root.AddCommand(a.parseCmd())
	root.AddCommand(a.previewCmd())
	root.AddCommand(a.importCmd())
	root.AddCommand(a.seedCmd())

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	var err error
	if a.configPath != "" {
		a.cfg, _, err = config.LoadConfigFrom(a.configPath)
	} else {
		a.cfg, _, err = config.LoadConfigWithInfo()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := a.cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	a.logger = logging.New(cmd.ErrOrStderr(), a.cfg.Log.Format, logging.ParseLevel(level))
	return nil
}

// openStore 打开 SQLite 存储
func (a *app) openStore() (*store.Store, error) {
	path := a.dbPath
	if path == "" {
		if _, err := config.EnsureDataDir(a.cfg); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		path = config.DBPath(a.cfg)
	}
	return store.New(path)
}

// locationFor 命令行覆盖后的站点
func (a *app) locationFor() model.Location {
	loc := a.cfg.DefaultLocation()
	if a.location != "" {
		loc.Name = a.location
	}
	if a.timezone != "" {
		loc.TimeZone = a.timezone
	}
	return loc
}

func readWorkbook(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	return data, nil
}
