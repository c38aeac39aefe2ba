package fetch

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	histogramMin     = 1                     // 1µs
	histogramMax     = 10 * 60 * 1000 * 1000 // 10m in µs
	histogramSigFigs = 3
)

// Stats summarises the downloads of one bundle. Latency percentiles only
// cover artifacts that were downloaded, not cache hits.
type Stats struct {
	Count     int           `json:"count" yaml:"count"`
	Bytes     int64         `json:"bytes" yaml:"bytes"`
	CacheHits int           `json:"cacheHits" yaml:"cacheHits"`
	Min       time.Duration `json:"min" yaml:"min"`
	Max       time.Duration `json:"max" yaml:"max"`
	Mean      time.Duration `json:"mean" yaml:"mean"`
	P50       time.Duration `json:"p50" yaml:"p50"`
	P90       time.Duration `json:"p90" yaml:"p90"`
	P99       time.Duration `json:"p99" yaml:"p99"`
}

func computeStats(artifacts []Artifact) Stats {
	hist := hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs)

	var s Stats
	for _, a := range artifacts {
		s.Count++
		s.Bytes += int64(len(a.Body))
		if a.Cached {
			s.CacheHits++
			continue
		}
		// values above the trackable range are clamped
		us := a.Elapsed.Microseconds()
		if us > histogramMax {
			us = histogramMax
		}
		_ = hist.RecordValue(us)
	}

	if hist.TotalCount() == 0 {
		return s
	}

	s.Min = time.Duration(hist.Min()) * time.Microsecond
	s.Max = time.Duration(hist.Max()) * time.Microsecond
	s.Mean = time.Duration(hist.Mean()) * time.Microsecond
	s.P50 = time.Duration(hist.ValueAtQuantile(50)) * time.Microsecond
	s.P90 = time.Duration(hist.ValueAtQuantile(90)) * time.Microsecond
	s.P99 = time.Duration(hist.ValueAtQuantile(99)) * time.Microsecond
	return s
}
