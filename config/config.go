package config

import (
	"io/ioutil"
	"strings"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

var log = logging.MustGetLogger("config")

const (
	DEFAULT_ARRAY_SIZE   = 100000
	DEFAULT_QUERY_COUNT  = 50000
	DEFAULT_UPDATE_RATIO = 0.3
	DEFAULT_MAX_VALUE    = 1000
	DEFAULT_CACHE_SIZE   = 1000

	DEFAULT_FIB_MAX_N  = 1000
	DEFAULT_FIB_STEP   = 50
	DEFAULT_FIB_REPEAT = 10
)

type Config struct {
	LogFile   string          `yaml:"log-file"`
	LogLevel  string          `yaml:"log-level"`
	Range     RangeConfig     `yaml:"range"`
	Fibonacci FibonacciConfig `yaml:"fibonacci"`
}

type RangeConfig struct {
	ArraySize   int      `yaml:"array-size"`
	QueryCount  int      `yaml:"query-count"`
	UpdateRatio *float64 `yaml:"update-ratio"` // 为空时使用默认值，0表示只查询不更新
	MaxValue    int      `yaml:"max-value"`
	CacheSize   int      `yaml:"cache-size"`
	Seed        uint64   `yaml:"seed"`
}

type FibonacciConfig struct {
	MaxN      uint32 `yaml:"max-n"`
	Step      uint32 `yaml:"step"`
	Repeat    int    `yaml:"repeat"`
	CacheSize int    `yaml:"cache-size"`
}

var ErrInvalidConfig = errors.New("invalid config")

// Validate 校验并填充默认值
func (c *Config) Validate() error {
	level := strings.ToLower(c.LogLevel)
	c.LogLevel = "info"
	for _, l := range []string{"error", "warning", "info", "debug"} {
		if level == l {
			c.LogLevel = l
		}
	}

	r := &c.Range
	if r.ArraySize < 0 || r.QueryCount < 0 || r.MaxValue < 0 || r.CacheSize < 0 {
		return errors.Wrap(ErrInvalidConfig, "range sizes must not be negative")
	}
	if r.UpdateRatio == nil {
		ratio := DEFAULT_UPDATE_RATIO
		r.UpdateRatio = &ratio
	}
	if *r.UpdateRatio < 0 || *r.UpdateRatio > 1 {
		return errors.Wrapf(ErrInvalidConfig, "update-ratio %v not in [0, 1]", *r.UpdateRatio)
	}
	if r.ArraySize == 0 {
		r.ArraySize = DEFAULT_ARRAY_SIZE
	}
	if r.QueryCount == 0 {
		r.QueryCount = DEFAULT_QUERY_COUNT
	}
	if r.MaxValue == 0 {
		r.MaxValue = DEFAULT_MAX_VALUE
	}
	if r.CacheSize == 0 {
		r.CacheSize = DEFAULT_CACHE_SIZE
	}

	f := &c.Fibonacci
	if f.Repeat < 0 || f.CacheSize < 0 {
		return errors.Wrap(ErrInvalidConfig, "fibonacci sizes must not be negative")
	}
	if f.MaxN == 0 {
		f.MaxN = DEFAULT_FIB_MAX_N
	}
	if f.Step == 0 {
		f.Step = DEFAULT_FIB_STEP
	}
	if f.Repeat == 0 {
		f.Repeat = DEFAULT_FIB_REPEAT
	}
	if f.CacheSize == 0 {
		// 需要容纳0..MaxN的全部结果，与不限容量的缓存等价
		f.CacheSize = int(f.MaxN) + 1
	}
	return nil
}

func Default() *Config {
	c := &Config{}
	c.Validate()
	return c
}

func Parse(configBytes []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(configBytes, c); err != nil {
		return nil, errors.Wrap(err, "unmarshal yaml")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func Load(path string) (*Config, error) {
	configBytes, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config file %s", path)
	}
	c, err := Parse(configBytes)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	log.Debugf("config loaded from %s: %+v", path, *c)
	return c, nil
}
