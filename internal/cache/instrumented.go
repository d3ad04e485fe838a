package cache

// instrumentedCache wraps a Cache and records Prometheus metrics for hits,
// misses, backend errors and the current entry count under a group label.
type instrumentedCache struct {
	inner  Cache
	group  string
	gauges *entryGauges
}

// newInstrumentedCache wraps inner with metric instrumentation for the given group.
// The entries gauge reads inner.Len() at scrape time.
func newInstrumentedCache(inner Cache, group string) *instrumentedCache {
	entries.track(group, inner.Len)
	return &instrumentedCache{inner: inner, group: group, gauges: entries}
}

func (c *instrumentedCache) Get(key string) ([]byte, bool, error) {
	val, ok, err := c.inner.Get(key)
	switch {
	case err != nil:
		ErrorsTotal.WithLabelValues(c.group, "get").Inc()
	case ok:
		HitsTotal.WithLabelValues(c.group).Inc()
	default:
		MissesTotal.WithLabelValues(c.group).Inc()
	}
	return val, ok, err
}

func (c *instrumentedCache) Set(key string, value []byte) error {
	err := c.inner.Set(key, value)
	if err != nil {
		ErrorsTotal.WithLabelValues(c.group, "set").Inc()
	}
	return err
}

func (c *instrumentedCache) Contains(key string) bool {
	return c.inner.Contains(key)
}

func (c *instrumentedCache) Delete(key string) (bool, error) {
	existed, err := c.inner.Delete(key)
	if err != nil {
		ErrorsTotal.WithLabelValues(c.group, "delete").Inc()
	}
	return existed, err
}

func (c *instrumentedCache) Len() int {
	return c.inner.Len()
}

// Close drops the entries gauge and closes the underlying cache.
func (c *instrumentedCache) Close() error {
	c.gauges.untrack(c.group)
	return c.inner.Close()
}
