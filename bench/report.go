package bench

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/docker/go-units"

	"gitlab.x.lan/yunshan/memotree/stats"
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 2, 2, 2, byte(' '), 0)
}

func WriteRangeReport(w io.Writer, r *RangeResult) error {
	tabw := newTabWriter(w)
	fmt.Fprintf(tabw, "values\t%d\n", r.Size)
	fmt.Fprintf(tabw, "queries\t%d\n", r.Queries)
	fmt.Fprintf(tabw, "updates\t%d\n", r.Updates)
	fmt.Fprintf(tabw, "scanned values\t%d\n", r.Scanned)
	fmt.Fprintf(tabw, "without cache\t%.2fs\n", r.Baseline.Seconds())
	fmt.Fprintf(tabw, "with lru cache\t%.2fs\n", r.Cached.Seconds())
	fmt.Fprintf(tabw, "tree footprint\t%s\n", units.BytesSize(float64(r.Footprint)))
	fmt.Fprintf(tabw, "cached ranges\t%d\n", r.CachedLeft)
	return tabw.Flush()
}

func WriteFibonacciReport(w io.Writer, rows []FibonacciRow) error {
	tabw := newTabWriter(w)
	fmt.Fprintln(tabw, "n\tlru cache (s)\tsplay tree (s)")
	for _, row := range rows {
		fmt.Fprintf(tabw, "%d\t%.9f\t%.9f\n", row.N, row.LRU.Seconds(), row.Splay.Seconds())
	}
	return tabw.Flush()
}

func WriteCounters(w io.Writer, counters []stats.Counter) error {
	tabw := newTabWriter(w)
	for _, counter := range counters {
		items := append([]stats.StatItem(nil), counter.Items...)
		sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
		for _, item := range items {
			fmt.Fprintf(tabw, "%s\t%s\t%s\t%v\n", counter.Module, counter.Tags, item.Name, item.Value)
		}
	}
	return tabw.Flush()
}
