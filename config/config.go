package config

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

const (
	DatabaseMemory   = "memory"
	DatabasePostgres = "postgres"
	DatabaseSqlite   = "sqlite"
)

// DBConfig Database config
type DBConfig struct {
	Type     string `yaml:"type" json:"type"` // memory | postgres | sqlite
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"` // database name, or file name for sqlite
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// SysConfig System config
type SysConfig struct {
	Appid        string `yaml:"appid" json:"appid"`
	Location     string `yaml:"location" json:"location"`
	Workdir      string `yaml:"workdir" json:"workdir"`
	Debug        bool   `yaml:"debug" json:"debug"`
	NodeID       int64  `yaml:"node_id" json:"node_id"`             // snowflake node for import batch ids
	SampleData   bool   `yaml:"sample_data" json:"sample_data"`     // seed demo records into an empty store
	OverdueCron  string `yaml:"overdue_cron" json:"overdue_cron"`   // empty disables the overdue sweep
	SweepWorkers int    `yaml:"sweep_workers" json:"sweep_workers"` // concurrent updates during the sweep
}

// WebConfig Web server config
type WebConfig struct {
	Host        string `yaml:"host" json:"host"`
	Port        int    `yaml:"port" json:"port"`
	Secret      string `yaml:"secret" json:"secret"`             // HS256 key for API tokens, empty disables auth
	UploadLimit string `yaml:"upload_limit" json:"upload_limit"` // echo BodyLimit syntax, e.g. 10M
}

// ImportConfig Spreadsheet import config
type ImportConfig struct {
	MaxFileSize int64 `yaml:"max_file_size" json:"max_file_size"` // bytes
}

// LogConfig Logger config
type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"` // development | production
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig    `yaml:"system" json:"system"`
	Web      WebConfig    `yaml:"web" json:"web"`
	Database DBConfig     `yaml:"database" json:"database"`
	Import   ImportConfig `yaml:"import" json:"import"`
	Logger   LogConfig    `yaml:"logger" json:"logger"`
}

// GetLogDir returns the log directory under the workdir.
func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

// GetDataDir returns the data directory under the workdir.
func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) initDirs() error {
	for _, dir := range []string{c.GetLogDir(), c.GetDataDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}
	return nil
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:        "JobDesk",
		Location:     "Local",
		Workdir:      "/var/jobdesk",
		Debug:        false,
		NodeID:       1,
		SampleData:   false,
		OverdueCron:  "",
		SweepWorkers: 8,
	},
	Web: WebConfig{
		Host:        "0.0.0.0",
		Port:        5000,
		UploadLimit: "12M",
	},
	Database: DBConfig{
		Type:     DatabaseMemory,
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "jobdesk",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  50,
		IdleConn: 10,
		Debug:    false,
	},
	Import: ImportConfig{
		MaxFileSize: 10 << 20,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: false,
		Filename:   "/var/jobdesk/logs/jobdesk.log",
	},
}

// LoadConfig reads cfile (YAML) over the defaults and applies JOBDESK_*
// environment overrides. A missing file is not an error.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := *DefaultAppConfig
	if cfile == "" {
		cfile = "jobdesk.yml"
	}
	if data, err := os.ReadFile(filepath.Clean(cfile)); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrapf(err, "parse %s", cfile)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "read %s", cfile)
	}

	setEnvValue("JOBDESK_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvValue("JOBDESK_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("JOBDESK_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvInt64Value("JOBDESK_SYSTEM_NODE_ID", &cfg.System.NodeID)
	setEnvBoolValue("JOBDESK_SYSTEM_SAMPLE_DATA", &cfg.System.SampleData)
	setEnvValue("JOBDESK_SYSTEM_OVERDUE_CRON", &cfg.System.OverdueCron)
	setEnvIntValue("JOBDESK_SYSTEM_SWEEP_WORKERS", &cfg.System.SweepWorkers)

	setEnvValue("JOBDESK_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("JOBDESK_WEB_PORT", &cfg.Web.Port)
	setEnvValue("JOBDESK_WEB_SECRET", &cfg.Web.Secret)
	setEnvValue("JOBDESK_WEB_UPLOAD_LIMIT", &cfg.Web.UploadLimit)

	setEnvValue("JOBDESK_DB_TYPE", &cfg.Database.Type)
	setEnvValue("JOBDESK_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("JOBDESK_DB_PORT", &cfg.Database.Port)
	setEnvValue("JOBDESK_DB_NAME", &cfg.Database.Name)
	setEnvValue("JOBDESK_DB_USER", &cfg.Database.User)
	setEnvValue("JOBDESK_DB_PWD", &cfg.Database.Passwd)
	setEnvIntValue("JOBDESK_DB_MAX_CONN", &cfg.Database.MaxConn)
	setEnvIntValue("JOBDESK_DB_IDLE_CONN", &cfg.Database.IdleConn)
	setEnvBoolValue("JOBDESK_DB_DEBUG", &cfg.Database.Debug)

	setEnvInt64Value("JOBDESK_IMPORT_MAX_FILE_SIZE", &cfg.Import.MaxFileSize)

	setEnvValue("JOBDESK_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("JOBDESK_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("JOBDESK_LOGGER_FILENAME", &cfg.Logger.Filename)

	cfg.Database.Type = strings.ToLower(strings.TrimSpace(cfg.Database.Type))
	switch cfg.Database.Type {
	case "":
		cfg.Database.Type = DatabaseMemory
	case DatabaseMemory, DatabasePostgres, DatabaseSqlite:
	default:
		return nil, errors.Errorf("unsupported database type %q", cfg.Database.Type)
	}
	if cfg.System.NodeID < 0 || cfg.System.NodeID > 1023 {
		return nil, errors.Errorf("system.node_id %d out of range 0-1023", cfg.System.NodeID)
	}
	return &cfg, nil
}

// InitWorkdir creates the log and data directories when file output or a
// sqlite database needs them.
func (c *AppConfig) InitWorkdir() error {
	if !c.Logger.FileEnable && c.Database.Type != DatabaseSqlite {
		return nil
	}
	return c.initDirs()
}

func setEnvValue(name string, val *string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*val = v
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		if b, err := cast.ToBoolE(v); err == nil {
			*val = b
		}
	}
}

func setEnvIntValue(name string, val *int) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		if i, err := cast.ToIntE(v); err == nil {
			*val = i
		}
	}
}

func setEnvInt64Value(name string, val *int64) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		if i, err := cast.ToInt64E(v); err == nil {
			*val = i
		}
	}
}
