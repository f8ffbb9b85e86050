package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"lpc/internal/errs"
	"lpc/pkg/glog"
)

const (
	FactoryGoroutine = "goroutine"
	FactoryAnts      = "ants"
)

// Config 运行时配置
type Config struct {
	// Pool 线程池配置
	Pool struct {
		Threads        int    `yaml:"threads"`        // 线程数
		BaseThreadName string `yaml:"baseThreadName"` // 线程名前缀
		Factory        string `yaml:"factory"`        // goroutine 或 ants
	} `yaml:"pool"`

	// Mailbox 邮箱默认配置
	Mailbox struct {
		Capacity   int `yaml:"capacity"`   // 默认容量，0 表示无界
		Throughput int `yaml:"throughput"` // 每排空多少个事件让出一次，0 表示不让出
	} `yaml:"mailbox"`

	// Timer 延迟投递的时间轮
	Timer struct {
		Tick      time.Duration `yaml:"tick"`
		WheelSize int64         `yaml:"wheelSize"`
	} `yaml:"timer"`

	Metrics struct {
		Enabled   bool   `yaml:"enabled"`
		Namespace string `yaml:"namespace"`
	} `yaml:"metrics"`

	// Glog 配置
	Glog glog.Config `yaml:"glog"`
}

// Load 读取 YAML 配置，未出现的字段保留默认值
func Load(profileFilePath string) (*Config, error) {
	data, err := os.ReadFile(profileFilePath)
	if err != nil {
		return nil, errors.Wrapf(err, "read config file %s", profileFilePath)
	}
	config := Default()
	if err = yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrapf(err, "unmarshal config file %s", profileFilePath)
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Default 生成默认配置
func Default() *Config {
	c := &Config{}
	c.Pool.Threads = 4
	c.Pool.BaseThreadName = "lpc-thread"
	c.Pool.Factory = FactoryGoroutine
	c.Mailbox.Capacity = 0
	c.Mailbox.Throughput = 0
	c.Timer.Tick = 10 * time.Millisecond
	c.Timer.WheelSize = 3600
	c.Metrics.Enabled = false
	c.Metrics.Namespace = "lpc"
	c.Glog = *glog.DefaultConfig()
	return c
}

// Validate 检查取值范围
func (c *Config) Validate() error {
	if c.Pool.Threads < 1 {
		return errors.Wrapf(errs.ErrInvalidConfig, "pool.threads %d", c.Pool.Threads)
	}
	switch c.Pool.Factory {
	case "", FactoryGoroutine, FactoryAnts:
	default:
		return errors.Wrapf(errs.ErrInvalidConfig, "pool.factory %q", c.Pool.Factory)
	}
	if c.Mailbox.Capacity < 0 {
		return errors.Wrapf(errs.ErrInvalidConfig, "mailbox.capacity %d", c.Mailbox.Capacity)
	}
	if c.Mailbox.Throughput < 0 {
		return errors.Wrapf(errs.ErrInvalidConfig, "mailbox.throughput %d", c.Mailbox.Throughput)
	}
	if c.Timer.Tick <= 0 || c.Timer.WheelSize <= 0 {
		return errors.Wrapf(errs.ErrInvalidConfig, "timer tick %s wheelSize %d", c.Timer.Tick, c.Timer.WheelSize)
	}
	return nil
}
