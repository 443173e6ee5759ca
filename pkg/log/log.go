// Copyright (c) 2019 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package log

import (
	"context"
	"encoding/hex"
	"log"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"go.elastic.co/ecszap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// GlobalConfig defines the global logger configurations.
type GlobalConfig struct {
	Zap                *zap.Config `json:"zap" yaml:"zap"`
	StderrRedirectFile *string     `json:"stderrRedirectFile" yaml:"stderrRedirectFile"`
	RedirectStdLog     bool        `json:"stdLogRedirect" yaml:"stdLogRedirect"`
	EcsIntegration     bool        `json:"ecsIntegration" yaml:"ecsIntegration"`
}

type loggerCtxKey struct{}

var (
	_globalCfg        GlobalConfig
	_logMu            sync.RWMutex
	_logServeMux      = http.NewServeMux()
	_subLoggers       map[string]*zap.Logger
	_levelHandlers    = make(map[string]struct{})
	_globalLoggerName = "global"
)

func init() {
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level.SetLevel(zap.InfoLevel)
	l, err := zapCfg.Build()
	if err != nil {
		log.Println("Failed to init zap global logger, no zap log will be shown till zap is properly initialized: ", err)
		return
	}
	_logMu.Lock()
	_globalCfg.Zap = &zapCfg
	_subLoggers = make(map[string]*zap.Logger)
	_logMu.Unlock()
	zap.ReplaceGlobals(l)
}

// L wraps zap.L().
func L() *zap.Logger { return zap.L() }

// S wraps zap.S().
func S() *zap.SugaredLogger { return zap.S() }

// Logger returns logger of the given name
func Logger(name string) *zap.Logger {
	_logMu.RLock()
	logger, ok := _subLoggers[name]
	_logMu.RUnlock()
	if !ok {
		return L()
	}
	return logger
}

// InitLoggers initializes the global logger and other sub loggers.
func InitLoggers(globalCfg GlobalConfig, subCfgs map[string]GlobalConfig, opts ...zap.Option) error {
	if _, exists := subCfgs[_globalLoggerName]; exists {
		return errors.New("'" + _globalLoggerName + "' is a reserved name for global logger")
	}
	cfgs := make(map[string]GlobalConfig, len(subCfgs)+1)
	for name, cfg := range subCfgs {
		cfgs[name] = cfg
	}
	cfgs[_globalLoggerName] = globalCfg
	for name, cfg := range cfgs {
		_logMu.RLock()
		_, exists := _subLoggers[name]
		_logMu.RUnlock()
		if exists {
			return errors.Errorf("duplicate sub logger name: %s", name)
		}
		if cfg.Zap == nil {
			zapCfg := zap.NewProductionConfig()
			cfg.Zap = &zapCfg
		} else {
			cfg.Zap.EncoderConfig = zap.NewProductionEncoderConfig()
		}
		if cfg.EcsIntegration {
			cfg.Zap.EncoderConfig = ecszap.ECSCompatibleEncoderConfig(cfg.Zap.EncoderConfig)
		}
		if cfg.StderrRedirectFile != nil {
			cfg.Zap.ErrorOutputPaths = append(cfg.Zap.ErrorOutputPaths, *cfg.StderrRedirectFile)
		}
		logger, err := cfg.Zap.Build(opts...)
		if err != nil {
			return err
		}

		_logMu.Lock()
		if name == _globalLoggerName {
			_globalCfg = cfg
			zap.ReplaceGlobals(logger)
			if cfg.RedirectStdLog {
				zap.RedirectStdLog(logger)
			}
		} else {
			_subLoggers[name] = logger
		}
		if _, ok := _levelHandlers[name]; !ok {
			_logServeMux.HandleFunc("/"+name, cfg.Zap.Level.ServeHTTP)
			_levelHandlers[name] = struct{}{}
		}
		_logMu.Unlock()
	}
	return nil
}

// RegisterLevelConfigMux registers log's level config http mux.
func RegisterLevelConfigMux(root *http.ServeMux) {
	_logMu.Lock()
	root.Handle("/logging/", http.StripPrefix("/logging", _logServeMux))
	_logMu.Unlock()
}

// WithLogger attaches a logger to the context
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, l)
}

// FromContext returns the logger carried by the context, or the global logger
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerCtxKey{}).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return L()
}

// Hex creates a zap field which convert binary to hex.
func Hex(k string, d []byte) zap.Field {
	return zap.String(k, hex.EncodeToString(d))
}

// Level returns the level of the global logger
func Level() zapcore.Level {
	_logMu.RLock()
	defer _logMu.RUnlock()
	if _globalCfg.Zap == nil {
		return zapcore.InfoLevel
	}
	return _globalCfg.Zap.Level.Level()
}
