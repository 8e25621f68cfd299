package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"articlehub/internal/models"
)

const namespace = "articlehub"

var articlesDesc = prometheus.NewDesc(
	namespace+"_articles",
	"Number of articles by moderation status",
	[]string{"status"},
	nil,
)

var (
	policyDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "policy_decisions_total",
		Help:      "Visibility policy decisions by operation and outcome",
	}, []string{"operation", "outcome"})

	activityEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_events_total",
		Help:      "Activity events delivered to a sink by result",
	}, []string{"sink", "result"})

	notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Author notification emails by result",
	}, []string{"result"})

	transitionRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transition_retries_total",
		Help:      "Moderation transitions retried after a concurrent status change",
	})
)

// StatusCounter reports article counts per moderation status.
type StatusCounter interface {
	CountArticlesByStatus(ctx context.Context) ([]models.StatusCount, error)
}

// ArticleCollector is a custom Prometheus collector that reads article
// counts from the database on each scrape.
type ArticleCollector struct {
	store   StatusCounter
	timeout time.Duration
}

// NewArticleCollector creates a collector backed by store.
func NewArticleCollector(store StatusCounter) *ArticleCollector {
	return &ArticleCollector{store: store, timeout: 5 * time.Second}
}

// Describe sends the metric descriptor to the channel.
func (c *ArticleCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- articlesDesc
}

// Collect emits one gauge per moderation status. Statuses with no articles
// are reported as zero.
func (c *ArticleCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	counts, err := c.store.CountArticlesByStatus(ctx)
	if err != nil {
		slog.Error("failed to collect article metrics", "error", err)
		return
	}

	byStatus := map[models.ArticleStatus]int64{
		models.StatusPending:  0,
		models.StatusApproved: 0,
		models.StatusRejected: 0,
	}
	for _, sc := range counts {
		byStatus[sc.Status] = sc.Count
	}
	for status, n := range byStatus {
		ch <- prometheus.MustNewConstMetric(articlesDesc, prometheus.GaugeValue, float64(n), string(status))
	}
}

var initOnce sync.Once

// Init registers the collectors with the default registry.
// Must be called once at startup.
func Init(store StatusCounter) {
	initOnce.Do(func() {
		prometheus.MustRegister(
			NewArticleCollector(store),
			policyDecisions,
			activityEvents,
			notifications,
			transitionRetries,
		)
	})
}

// RecordDecision counts a policy decision.
func RecordDecision(operation, outcome string) {
	policyDecisions.WithLabelValues(operation, outcome).Inc()
}

// RecordActivity counts an activity event delivery attempt for a sink.
func RecordActivity(sink string, err error) {
	activityEvents.WithLabelValues(sink, result(err)).Inc()
}

// RecordNotification counts an author notification attempt.
func RecordNotification(err error) {
	notifications.WithLabelValues(result(err)).Inc()
}

// RecordTransitionRetry counts a retried moderation transition.
func RecordTransitionRetry() {
	transitionRetries.Inc()
}

func result(err error) string {
	if err != nil {
		return "dropped"
	}
	return "ok"
}
