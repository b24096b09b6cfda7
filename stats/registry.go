package stats

import (
	"reflect"
	"strings"
	"sync"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("stats")

var ErrNilCountable = errors.New("countable is nil")

type Counter struct {
	Module string
	Tags   OptionStatTags
	Items  []StatItem
}

type statSource struct {
	module    string
	countable Countable
	tags      OptionStatTags
}

var (
	lock    sync.Mutex
	sources []*statSource
)

func registerCountable(module string, countable Countable, opts ...StatsOption) error {
	if countable == nil {
		return ErrNilCountable
	}
	source := &statSource{module: module, countable: countable, tags: OptionStatTags{}}
	for _, opt := range opts {
		switch o := opt.(type) {
		case OptionStatTags:
			for k, v := range o {
				source.tags[k] = v
			}
		default:
			log.Warningf("unsupported stats option %v for module %s", opt, module)
		}
	}

	lock.Lock()
	defer lock.Unlock()
	for _, s := range sources {
		if s.countable == countable {
			return errors.Errorf("countable of module %s already registered", module)
		}
	}
	sources = append(sources, source)
	return nil
}

func deregisterCountable(countable Countable) {
	lock.Lock()
	defer lock.Unlock()
	for i, s := range sources {
		if s.countable == countable {
			sources = append(sources[:i], sources[i+1:]...)
			return
		}
	}
}

func snapshot() []Counter {
	lock.Lock()
	registered := make([]*statSource, len(sources))
	copy(registered, sources)
	lock.Unlock()

	counters := make([]Counter, 0, len(registered))
	for _, s := range registered {
		items := toStatItems(s.countable.GetCounter())
		if items == nil {
			continue
		}
		counters = append(counters, Counter{Module: s.module, Tags: s.tags, Items: items})
	}
	return counters
}

// 结构体字段通过`statsd:"name"`或`statsd:"name,gauge"`声明统计项
func toStatItems(counter interface{}) []StatItem {
	if counter == nil {
		return nil
	}
	if items, ok := counter.([]StatItem); ok {
		return items
	}

	value := reflect.ValueOf(counter)
	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		log.Warningf("unsupported counter type %T", counter)
		return nil
	}

	valueType := value.Type()
	items := make([]StatItem, 0, valueType.NumField())
	for i := 0; i < valueType.NumField(); i++ {
		field := valueType.Field(i)
		tag := field.Tag.Get("statsd")
		if tag == "" {
			continue
		}
		name, statType := tag, COUNT_TYPE
		if comma := strings.IndexByte(tag, ','); comma >= 0 {
			name = tag[:comma]
			if tag[comma+1:] == "gauge" {
				statType = GAUGE_TYPE
			}
		}
		items = append(items, StatItem{name, statType, value.Field(i).Interface()})
	}
	return items
}
