package metrics

import (
	"context"
	"time"

	"github.com/GravityKit/GravityView-sub009/internal/domain/searchfield"
)

// instrumentedSource records lookup duration and failures per driver.
type instrumentedSource struct {
	inner  searchfield.ValueSource
	driver string
}

// InstrumentSource wraps src so every lookup is observed under the driver label.
func InstrumentSource(driver string, src searchfield.ValueSource) searchfield.ValueSource {
	return &instrumentedSource{inner: src, driver: driver}
}

func (s *instrumentedSource) Values(ctx context.Context, q searchfield.ValueQuery) (map[string][]string, error) {
	start := time.Now()
	vals, err := s.inner.Values(ctx, q)
	SieveQueryDuration.WithLabelValues(s.driver).Observe(time.Since(start).Seconds())
	if err != nil {
		SieveErrorsTotal.WithLabelValues(s.driver).Inc()
		return nil, err //nolint:wrapcheck // transparent decorator
	}
	return vals, nil
}
