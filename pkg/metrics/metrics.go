// Package metrics exposes engine activity to Prometheus.
//
// The engine is confined to one goroutine and scrapes are not, so the two
// sides meet in a Recorder: the reactive side publishes Stats snapshots,
// and the Collector turns the latest snapshots into const metrics at scrape
// time.
//
// Metrics exported:
//   - loom_graph_evaluations_total: Counter of binding and tracker evaluations
//   - loom_graph_dirty_marks_total: Counter of clean-to-dirty transitions
//   - loom_graph_links_created_total: Counter of dependency links created
//   - loom_graph_links_released_total: Counter of dependency links released
//   - loom_graph_live_links: Gauge of links currently in the arena
//   - loom_graph_active_animations: Gauge of running animations
//   - loom_repeater_instances_created_total: Counter of instances built, by repeater
//   - loom_repeater_instances_destroyed_total: Counter of instances disposed, by repeater
//   - loom_repeater_instances_reused_total: Counter of instances kept across window moves, by repeater
//   - loom_repeater_updates_total: Counter of row data pushes, by repeater
//   - loom_repeater_live_instances: Gauge of live instances, by repeater
//
// Example:
//
//	rec := metrics.NewRecorder()
//	prometheus.MustRegister(metrics.NewCollector(rec, metrics.WithNamespace("myapp")))
//
//	// once per frame, on the reactive goroutine:
//	rec.RecordGraph(g.Stats())
//	rec.RecordRepeater("todos", rep.Stats())
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Config configures the collector's metric identity.
type Config struct {
	// Namespace is the metrics namespace (default: "loom").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels
}

// Option configures the collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// defaultConfig returns the default collector configuration.
func defaultConfig() Config {
	return Config{
		Namespace:   "loom",
		Subsystem:   "",
		ConstLabels: nil,
	}
}

// Collector reads a Recorder's snapshots at scrape time. Register it with
// any Prometheus registry.
type Collector struct {
	rec *Recorder

	evaluations   *prometheus.Desc
	dirtyMarks    *prometheus.Desc
	linksCreated  *prometheus.Desc
	linksReleased *prometheus.Desc
	liveLinks     *prometheus.Desc
	animations    *prometheus.Desc

	repCreated   *prometheus.Desc
	repDestroyed *prometheus.Desc
	repReused    *prometheus.Desc
	repUpdates   *prometheus.Desc
	repLive      *prometheus.Desc
}

// NewCollector creates a collector over rec.
func NewCollector(rec *Recorder, opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	graph := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(config.Namespace, config.Subsystem, "graph_"+name),
			help, nil, config.ConstLabels)
	}
	rep := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(config.Namespace, config.Subsystem, "repeater_"+name),
			help, []string{"repeater"}, config.ConstLabels)
	}

	return &Collector{
		rec: rec,

		evaluations:   graph("evaluations_total", "Total binding and tracker evaluations"),
		dirtyMarks:    graph("dirty_marks_total", "Total clean-to-dirty transitions"),
		linksCreated:  graph("links_created_total", "Total dependency links created"),
		linksReleased: graph("links_released_total", "Total dependency links released"),
		liveLinks:     graph("live_links", "Dependency links currently held"),
		animations:    graph("active_animations", "Animations currently running"),

		repCreated:   rep("instances_created_total", "Total instances built"),
		repDestroyed: rep("instances_destroyed_total", "Total instances disposed"),
		repReused:    rep("instances_reused_total", "Total instances kept across window moves"),
		repUpdates:   rep("updates_total", "Total row data pushes into instances"),
		repLive:      rep("live_instances", "Instances currently alive"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.evaluations
	ch <- c.dirtyMarks
	ch <- c.linksCreated
	ch <- c.linksReleased
	ch <- c.liveLinks
	ch <- c.animations
	ch <- c.repCreated
	ch <- c.repDestroyed
	ch <- c.repReused
	ch <- c.repUpdates
	ch <- c.repLive
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if g, ok := c.rec.GraphStats(); ok {
		ch <- prometheus.MustNewConstMetric(c.evaluations, prometheus.CounterValue, float64(g.Evaluations))
		ch <- prometheus.MustNewConstMetric(c.dirtyMarks, prometheus.CounterValue, float64(g.DirtyMarks))
		ch <- prometheus.MustNewConstMetric(c.linksCreated, prometheus.CounterValue, float64(g.LinksCreated))
		ch <- prometheus.MustNewConstMetric(c.linksReleased, prometheus.CounterValue, float64(g.LinksReleased))
		ch <- prometheus.MustNewConstMetric(c.liveLinks, prometheus.GaugeValue, float64(g.LiveLinks))
		ch <- prometheus.MustNewConstMetric(c.animations, prometheus.GaugeValue, float64(g.ActiveAnimations))
	}
	for name, s := range c.rec.RepeaterStats() {
		ch <- prometheus.MustNewConstMetric(c.repCreated, prometheus.CounterValue, float64(s.Created), name)
		ch <- prometheus.MustNewConstMetric(c.repDestroyed, prometheus.CounterValue, float64(s.Destroyed), name)
		ch <- prometheus.MustNewConstMetric(c.repReused, prometheus.CounterValue, float64(s.Reused), name)
		ch <- prometheus.MustNewConstMetric(c.repUpdates, prometheus.CounterValue, float64(s.Updated), name)
		ch <- prometheus.MustNewConstMetric(c.repLive, prometheus.GaugeValue, float64(s.Live), name)
	}
}
