package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dronesurvey/dss/internal/model"
)

type AppConfig struct {
	v *viper.Viper
}

func NewAppConfig() *AppConfig {
	c := &AppConfig{v: viper.New()}

	setDefaults(c.v)

	return c
}

func (c *AppConfig) Load(filename ...string) bool {
	loaded := false

	for _, name := range filename {
		c.v.SetConfigFile(name)

		if err := c.v.MergeInConfig(); err != nil {
			slog.Info(fmt.Sprintf("error loading config: %s", err.Error()))
		} else {
			loaded = true
		}
	}

	return loaded
}

// LoadEnv makes PREFIX_KEY variables override file values; dots in keys become underscores.
func (c *AppConfig) LoadEnv(prefix string) {
	c.v.SetEnvPrefix(prefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.v.AutomaticEnv()
}

func (c *AppConfig) Set(key string, v any) {
	c.v.Set(key, v)
}

func (c *AppConfig) APIAddr() string {
	return c.v.GetString("api_addr")
}

func (c *AppConfig) DB() string {
	return c.v.GetString("db")
}

func (c *AppConfig) Debug() bool {
	return c.v.GetBool("debug")
}

func (c *AppConfig) CorsOrigins() []string {
	return c.v.GetStringSlice("cors_origins")
}

func (c *AppConfig) WsBuffer() int {
	return c.v.GetInt("ws.buffer")
}

func (c *AppConfig) AnalyticsTTL() time.Duration {
	return c.v.GetDuration("analytics_ttl")
}

func (c *AppConfig) DronesFile() string {
	return c.v.GetString("drones_file")
}

// Drones reads the drone seed file. No file configured means no drones.
func (c *AppConfig) Drones() ([]*model.Drone, error) {
	name := c.DronesFile()
	if name == "" {
		return nil, nil
	}

	dat, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", name, err)
	}

	var drones []*model.Drone

	if err := yaml.Unmarshal(dat, &drones); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", name, err)
	}

	for _, d := range drones {
		if d.Status != "" && !d.Status.Valid() {
			return nil, fmt.Errorf("drone %s: invalid status %s", d.Name, d.Status)
		}
	}

	return drones, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_addr", ":8000")
	v.SetDefault("db", "dss.sqlite")
	v.SetDefault("debug", false)
	v.SetDefault("cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("ws.buffer", 10)
	v.SetDefault("analytics_ttl", time.Second*10)
	v.SetDefault("drones_file", "")
}
