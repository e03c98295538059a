// Command consumer ingests technician availability updates from Kafka and
// keeps the shared Redis rule cache current, so the API never re-parses a
// schedule that another process already handled.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/example/repair-dispatch/internal/schedule"
)

var (
	msgsConsumed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "consumer_availability_updates_total",
		Help: "Total availability update messages consumed",
	})
	msgsInvalid = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "consumer_messages_invalid_total",
		Help: "Total invalid messages received",
	})
	cacheUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "consumer_rule_cache_updates_total",
		Help: "Total successful rule cache writes",
	})
	cacheErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "consumer_rule_cache_errors_total",
		Help: "Total rule cache write errors",
	})
)

func init() {
	prometheus.MustRegister(msgsConsumed, msgsInvalid, cacheUpdates, cacheErrors)
}

// availabilityUpdate is the wire format published by roster tooling.
type availabilityUpdate struct {
	TechnicianID int    `json:"technician_id"`
	Availability string `json:"availability"`
}

func main() {
	var metricsAddr string
	flag.StringVar(&metricsAddr, "metrics-addr", ":2112", "address to serve prometheus metrics on")
	flag.Parse()

	brokers := []string{"localhost:9092"}
	if env := os.Getenv("KAFKA_BROKERS"); env != "" {
		brokers = brokers[:0]
		for _, b := range strings.Split(env, ",") {
			if s := strings.TrimSpace(b); s != "" {
				brokers = append(brokers, s)
			}
		}
	}
	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "technician-availability"
	}
	group := os.Getenv("KAFKA_GROUP")
	if group == "" {
		group = "repair-dispatch-consumer"
	}
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	rc := redis.NewClient(&redis.Options{Addr: redisAddr, Password: os.Getenv("REDIS_PASSWORD")})
	cache := schedule.NewRedisRuleCacheFromClient(rc, time.Hour)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
		mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			if err := rc.Ping(r.Context()).Err(); err != nil {
				http.Error(w, "redis not ready", 503)
				return
			}
			w.WriteHeader(200)
			w.Write([]byte("ready"))
		})
		log.Printf("metrics/health listening on %s", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			log.Printf("metrics server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := kafka.NewReader(kafka.ReaderConfig{Brokers: brokers, Topic: topic, GroupID: group, MinBytes: 10e3, MaxBytes: 10e6})
	defer func() {
		_ = r.Close()
		_ = rc.Close()
	}()

	log.Printf("consumer listening topic=%s brokers=%v group=%s", topic, brokers, group)

	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("shutting down consumer")
				return
			}
			log.Printf("kafka read error: %v; backing off %s", err, backoff)
			time.Sleep(backoff)
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		backoff = time.Second

		msgsConsumed.Inc()

		var upd availabilityUpdate
		if err := json.Unmarshal(m.Value, &upd); err != nil || upd.TechnicianID <= 0 {
			msgsInvalid.Inc()
			log.Printf("invalid message: %v", err)
			continue
		}

		if err := refreshRuleWithRetry(ctx, cache, upd, 3, 200*time.Millisecond); err != nil {
			cacheErrors.Inc()
			log.Printf("rule cache update failed for technician=%d: %v", upd.TechnicianID, err)
			continue
		}
		cacheUpdates.Inc()
	}
}

// RuleWriter is the subset of the cache the consumer needs, so tests can
// fake failures without Redis.
type RuleWriter interface {
	Set(ctx context.Context, technicianID int, r schedule.Rule)
	Get(ctx context.Context, technicianID int) (schedule.Rule, bool)
}

// refreshRuleWithRetry parses the updated availability text and writes the
// resulting rule with retry/backoff, verifying the write with a read-back.
func refreshRuleWithRetry(ctx context.Context, cache RuleWriter, upd availabilityUpdate, attempts int, delay time.Duration) error {
	rule, _ := schedule.ParseAvailability(upd.Availability)
	var lastErr error
	for i := 0; i < attempts; i++ {
		cache.Set(ctx, upd.TechnicianID, rule)
		if got, ok := cache.Get(ctx, upd.TechnicianID); ok && got == rule {
			return nil
		}
		lastErr = errWriteNotVisible
		if i < attempts-1 {
			time.Sleep(delay)
			delay *= 2
		}
	}
	return lastErr
}

var errWriteNotVisible = &cacheWriteError{}

type cacheWriteError struct{}

func (e *cacheWriteError) Error() string { return "rule cache write not visible on read-back" }
