// Package metrics exports heap statistics as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/joshuapare/kheap/heap/backing"
)

const metricsNamespace = "kheap"

// StatsSource is anything that can snapshot allocator statistics.
// *heap.Heap satisfies it.
type StatsSource interface {
	Stats() backing.Stats
}

// Collector reads a fresh snapshot on every scrape.
type Collector struct {
	src StatsSource

	capacity    *prometheus.Desc
	inUse       *prometheus.Desc
	available   *prometheus.Desc
	largestFree *prometheus.Desc
	liveBlocks  *prometheus.Desc
	freeBlocks  *prometheus.Desc

	allocCalls    *prometheus.Desc
	allocFailures *prometheus.Desc
	freeCalls     *prometheus.Desc
	reallocCalls  *prometheus.Desc
	reallocPaths  *prometheus.Desc
	splits        *prometheus.Desc
	coalesces     *prometheus.Desc
	bytesAlloc    *prometheus.Desc
	bytesFreed    *prometheus.Desc
}

// Ensure Collector implements prometheus.Collector.
var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a collector for src. name is attached to every series
// as the "heap" label.
func NewCollector(src StatsSource, name string) *Collector {
	labels := prometheus.Labels{"heap": name}
	desc := func(metric, help string, variable ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(metricsNamespace, "", metric), help, variable, labels)
	}

	return &Collector{
		src: src,

		capacity:    desc("capacity_bytes", "Bytes on the heap's block grid."),
		inUse:       desc("in_use_bytes", "Bytes held by live blocks, headers included."),
		available:   desc("available_bytes", "Bytes held by free blocks."),
		largestFree: desc("largest_free_bytes", "Size of the largest free block."),
		liveBlocks:  desc("live_blocks", "Number of live blocks."),
		freeBlocks:  desc("free_blocks", "Number of free blocks."),

		allocCalls:    desc("alloc_calls_total", "Allocation requests that reached the backing allocator."),
		allocFailures: desc("alloc_failures_total", "Allocation requests that found no fitting block."),
		freeCalls:     desc("free_calls_total", "Release requests that reached the backing allocator."),
		reallocCalls:  desc("realloc_calls_total", "Reallocation requests that reached the backing allocator."),
		reallocPaths:  desc("realloc_resolved_total", "Reallocations by how they were satisfied.", "path"),
		splits:        desc("splits_total", "Free blocks split during allocation or shrinking."),
		coalesces:     desc("coalesces_total", "Free blocks merged with a neighbour.", "direction"),
		bytesAlloc:    desc("allocated_bytes_total", "Cumulative block bytes handed out."),
		bytesFreed:    desc("freed_bytes_total", "Cumulative block bytes released."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		c.capacity, c.inUse, c.available, c.largestFree, c.liveBlocks, c.freeBlocks,
		c.allocCalls, c.allocFailures, c.freeCalls, c.reallocCalls, c.reallocPaths,
		c.splits, c.coalesces, c.bytesAlloc, c.bytesFreed,
	} {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()

	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}
	counter := func(d *prometheus.Desc, v float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, v, labels...)
	}

	gauge(c.capacity, float64(s.Capacity))
	gauge(c.inUse, float64(s.InUse))
	gauge(c.available, float64(s.Available))
	gauge(c.largestFree, float64(s.LargestFree))
	gauge(c.liveBlocks, float64(s.LiveBlocks))
	gauge(c.freeBlocks, float64(s.FreeBlocks))

	counter(c.allocCalls, float64(s.AllocCalls))
	counter(c.allocFailures, float64(s.AllocFailures))
	counter(c.freeCalls, float64(s.FreeCalls))
	counter(c.reallocCalls, float64(s.ReallocCalls))
	counter(c.reallocPaths, float64(s.GrowInPlace), "grow_in_place")
	counter(c.reallocPaths, float64(s.ShrinkInPlace), "shrink_in_place")
	counter(c.reallocPaths, float64(s.Relocations), "relocate")
	counter(c.splits, float64(s.SplitCount))
	counter(c.coalesces, float64(s.CoalesceForward), "forward")
	counter(c.coalesces, float64(s.CoalesceBackward), "backward")
	counter(c.bytesAlloc, float64(s.BytesAllocated))
	counter(c.bytesFreed, float64(s.BytesFreed))
}
