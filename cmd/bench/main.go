// Command bench runs a synthetic Zipf workload against the cache and exposes
// optional pprof/Prometheus endpoints.
//
// The cache itself is unsynchronized, so the workload goes through a
// mutex-guarded wrapper: one lock held for the duration of each operation.
// That is the external-serialization contract any multi-goroutine caller of
// this library has to follow.
package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/lrucache/cache"
	"github.com/IvanBrykalov/lrucache/metrics/prom"
	"github.com/IvanBrykalov/lrucache/policy/twoq"
)

// lockedCache serializes access to the unsynchronized cache across worker
// goroutines. Only the operations the workload needs are wrapped.
type lockedCache[K comparable, V any] struct {
	mu sync.Mutex
	c  cache.Cache[K, V]
}

func (l *lockedCache[K, V]) Get(k K) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.Get(k)
}

func (l *lockedCache[K, V]) Put(k K, v V) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.c.Put(k, v)
}

func (l *lockedCache[K, V]) Delete(k K) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.Delete(k)
}

func (l *lockedCache[K, V]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.Len()
}

// workerStats are owned by a single worker; summed after the group joins.
type workerStats struct {
	reads, writes, deletes uint64
	hits, misses           uint64
}

// report is the machine-readable run summary emitted with -json.
type report struct {
	RunID     string  `json:"run_id"`
	Policy    string  `json:"policy"`
	Capacity  int     `json:"capacity"`
	Keys      int     `json:"keyspace"`
	Workers   int     `json:"workers"`
	Duration  string  `json:"duration"`
	Reads     uint64  `json:"reads"`
	Writes    uint64  `json:"writes"`
	Deletes   uint64  `json:"deletes"`
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	HitRate   float64 `json:"hit_rate"`
	OpsPerSec float64 `json:"ops_per_sec"`
	Resident  int     `json:"resident_entries"`
}

func main() {
	var (
		capacity = flag.Int("cap", 100_000, "cache capacity (entries)")
		policy   = flag.String("policy", "lru", "eviction policy: lru | 2q")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")
		delPct   = flag.Int("deletes", 2, "delete percentage [0..100]")

		keys    = flag.Int("keys", 1_000_000, "keyspace size")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload = flag.Int("preload", 0, "preload entries (0 = cap/2)")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", "", "serve Prometheus metrics at addr; empty = disabled")
		jsonOut     = flag.Bool("json", false, "emit the final report as JSON on stdout")
	)
	flag.Parse()

	runID := uuid.NewString()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Str("run_id", runID).Logger()

	if *pprofAddr != "" {
		go func() {
			log.Info().Str("addr", *pprofAddr).Msg("pprof: serving")
			log.Err(http.ListenAndServe(*pprofAddr, nil)).Msg("pprof server stopped")
		}()
	}

	opt := cache.Options[string, string]{}
	if *metricsAddr != "" {
		opt.Metrics = prom.New(nil, "lrucache", "bench", nil)
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			log.Info().Str("addr", *metricsAddr).Msg("metrics: serving")
			log.Err(http.ListenAndServe(*metricsAddr, nil)).Msg("metrics server stopped")
		}()
	}

	switch *policy {
	case "lru":
		// nil => LRU by default
	case "2q":
		// split 2Q queues as a simple default
		opt.Policy = twoq.New[string, string](*capacity/4, *capacity/2)
	default:
		log.Fatal().Str("policy", *policy).Msg("unknown policy (use lru or 2q)")
	}

	inner, err := cache.NewWithOptions(*capacity, opt)
	if err != nil {
		log.Fatal().Err(err).Msg("cache construction failed")
	}
	lc := &lockedCache[string, string]{c: inner}

	// Preload half capacity to get a realistic hit-rate.
	pl := *preload
	if pl == 0 {
		pl = *capacity / 2
	}
	for i := 0; i < pl; i++ {
		lc.Put("k:"+strconv.Itoa(i), "v"+strconv.Itoa(i))
	}
	log.Info().
		Int("capacity", *capacity).
		Int("preloaded", pl).
		Int("workers", *workers).
		Int("keyspace", *keys).
		Str("policy", *policy).
		Dur("duration", *duration).
		Msg("starting workload")

	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}
	keysMax := uint64(*keys - 1)
	readPctVal, delPctVal := *readPct, *delPct
	seedBase := *seed
	zipfSVal, zipfVVal := *zipfS, *zipfV

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	stats := make([]workerStats, workersN)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workersN; w++ {
		st := &stats[w]
		id := w
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is not goroutine-safe).
			r := rand.New(rand.NewSource(seedBase + int64(id)*9973))
			z := rand.NewZipf(r, zipfSVal, zipfVVal, keysMax)
			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				k := "k:" + strconv.FormatUint(z.Uint64(), 10)
				switch p := r.Intn(100); {
				case p < readPctVal:
					if _, ok := lc.Get(k); ok {
						st.hits++
					} else {
						st.misses++
					}
					st.reads++
				case p < readPctVal+delPctVal:
					lc.Delete(k)
					st.deletes++
				default:
					lc.Put(k, "v")
					st.writes++
				}
			}
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Fatal().Err(err).Msg("workload failed")
	}
	elapsed := time.Since(start)

	var total workerStats
	for i := range stats {
		total.reads += stats[i].reads
		total.writes += stats[i].writes
		total.deletes += stats[i].deletes
		total.hits += stats[i].hits
		total.misses += stats[i].misses
	}
	ops := total.reads + total.writes + total.deletes

	rep := report{
		RunID:     runID,
		Policy:    *policy,
		Capacity:  *capacity,
		Keys:      *keys,
		Workers:   workersN,
		Duration:  elapsed.String(),
		Reads:     total.reads,
		Writes:    total.writes,
		Deletes:   total.deletes,
		Hits:      total.hits,
		Misses:    total.misses,
		OpsPerSec: float64(ops) / elapsed.Seconds(),
		Resident:  lc.Len(),
	}
	if total.reads > 0 {
		rep.HitRate = float64(total.hits) / float64(total.reads)
	}

	log.Info().
		Uint64("reads", rep.Reads).
		Uint64("writes", rep.Writes).
		Uint64("deletes", rep.Deletes).
		Float64("hit_rate", rep.HitRate).
		Float64("ops_per_sec", rep.OpsPerSec).
		Int("resident", rep.Resident).
		Msg("workload finished")

	if *jsonOut {
		out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(rep, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("report marshal failed")
		}
		os.Stdout.Write(append(out, '\n'))
	}
}
