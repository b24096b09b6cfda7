package stats

import (
	"testing"

	"github.com/pkg/errors"
)

type testCounter struct {
	Hit   uint64 `statsd:"hit"`
	Size  int    `statsd:"size,gauge"`
	inner int
}

type testCountable struct {
	counter testCounter
}

func (c *testCountable) GetCounter() interface{} {
	counter := c.counter
	c.counter = testCounter{}
	return &counter
}

func findCounter(module string) *Counter {
	for _, c := range Snapshot() {
		if c.Module == module {
			return &c
		}
	}
	return nil
}

func TestRegisterAndSnapshot(t *testing.T) {
	c := &testCountable{testCounter{Hit: 3, Size: 7, inner: 1}}
	if err := RegisterCountable("test_snapshot", c, OptionStatTags{"kind": "unit"}); err != nil {
		t.Fatal(err)
	}
	defer DeregisterCountable(c)

	counter := findCounter("test_snapshot")
	if counter == nil {
		t.Fatal("registered countable not found in snapshot")
	}
	if len(counter.Items) != 2 {
		t.Fatalf("expected 2 items, found %d", len(counter.Items))
	}
	for _, tc := range []struct {
		item StatItem
		want StatItem
	}{
		{counter.Items[0], StatItem{"hit", COUNT_TYPE, uint64(3)}},
		{counter.Items[1], StatItem{"size", GAUGE_TYPE, 7}},
	} {
		if tc.item != tc.want {
			t.Errorf("expected %v found %v", tc.want, tc.item)
		}
	}
	if counter.Tags.String() != "{kind: unit}" {
		t.Errorf("unexpected tags %s", counter.Tags.String())
	}

	counter = findCounter("test_snapshot")
	if counter.Items[0].Value != uint64(0) {
		t.Errorf("counter should be cleared after read, found %v", counter.Items[0].Value)
	}
}

func TestRegisterTwice(t *testing.T) {
	c := &testCountable{}
	if err := RegisterCountable("test_twice", c); err != nil {
		t.Fatal(err)
	}
	defer DeregisterCountable(c)
	if err := RegisterCountable("test_twice", c); err == nil {
		t.Error("duplicated register should fail")
	}
	if err := RegisterCountable("test_nil", nil); errors.Cause(err) != ErrNilCountable {
		t.Errorf("expected ErrNilCountable found %v", err)
	}
}

func TestDeregister(t *testing.T) {
	c := &testCountable{}
	RegisterCountable("test_deregister", c)
	DeregisterCountable(c)
	if findCounter("test_deregister") != nil {
		t.Error("deregistered countable should not be in snapshot")
	}
}

func TestGcMonitor(t *testing.T) {
	m := RegisterGcMonitor()
	defer DeregisterCountable(m)
	items := m.GetCounter().([]StatItem)
	if len(items) != 3 || items[2].Name != "heap_alloc" || items[2].Type != GAUGE_TYPE {
		t.Errorf("unexpected gc items %v", items)
	}
}
