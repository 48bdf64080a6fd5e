package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/greenie/internal/constants"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger
)

// Config controls where greenie writes its log and how much it keeps.
// Zero values fall back to the defaults in constants.
type Config struct {
	Debug     bool
	ConfigDir string

	// Name is both the log file stem and the line prefix.
	Name       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// Stderr receives a copy of every line in debug mode. Nil means os.Stderr.
	Stderr io.Writer
}

func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = constants.AppName
	}
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = constants.LogMaxSizeMB
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = constants.LogMaxBackups
	}
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = constants.LogMaxAgeDays
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	return c
}

// Path returns the active log file for cfg.
func (c Config) Path() string {
	c = c.withDefaults()
	return filepath.Join(c.ConfigDir, constants.LogDirName, c.Name+".log")
}

// Init builds the global logger from cfg. Until it is called every helper
// is a no-op.
func Init(cfg Config) error {
	cfg = cfg.withDefaults()
	if err := os.MkdirAll(filepath.Dir(cfg.Path()), 0755); err != nil {
		return err
	}

	var writer io.Writer = &lumberjack.Logger{
		Filename:   cfg.Path(),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   constants.LogCompressFiles,
	}

	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
		writer = io.MultiWriter(cfg.Stderr, writer)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          cfg.Name,
	})
	return nil
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
