package tablesync

import (
	"context"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/os/genv"
	"github.com/gogf/gf/v2/text/gstr"
)

const (
	configKey   = "tablesync"
	envKey      = "TABLESYNC_ENV"
	production  = "production"
	defaultType = "mysql"
)

// Config is the pool-level sync configuration, read from the "tablesync"
// section of the gf configuration.
type Config struct {
	MigrationStrategy      string `json:"migrationStrategy"`
	Environment            string `json:"environment"`
	AllowAlterInProduction bool   `json:"allowAlterInProduction"`
}

// LoadConfig reads the configuration. An empty environment falls back to
// the TABLESYNC_ENV environment variable.
func LoadConfig(ctx context.Context) (cfg Config, err error) {
	v, err := g.Cfg().Get(ctx, configKey)
	if err != nil {
		return
	}
	if !v.IsNil() {
		if err = v.Scan(&cfg); err != nil {
			return
		}
	}
	if cfg.Environment == "" {
		cfg.Environment = genv.Get(envKey).String()
	}
	_, err = ParseStrategy(cfg.MigrationStrategy)
	return
}

func (c Config) IsProduction() bool {
	return gstr.Equal(gstr.Trim(c.Environment), production)
}
