package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Total number of successful checkouts",
	})

	CheckoutsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_failed_total",
		Help: "Total number of failed checkouts",
	}, []string{"reason"})

	TransfersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transfers_total",
		Help: "Total number of successful peer transfers",
	})

	TransfersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transfers_failed_total",
		Help: "Total number of rejected peer transfers",
	}, []string{"reason"})

	DepositsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deposits_total",
		Help: "Total number of simulated deposits",
	}, []string{"currency"})

	ExchangesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cash_token_exchanges_total",
		Help: "Total number of cash to token exchanges",
	})

	RewardsIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "token_rewards_issued_total",
		Help: "Total number of token rewards issued",
	})

	DesignsPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "designs_published_total",
		Help: "Total number of designs published for sale",
	})

	DesignsSoldTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "designs_sold_total",
		Help: "Total number of designs purchased by brands",
	})

	CommentsPostedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comments_posted_total",
		Help: "Total number of comments posted",
	}, []string{"scope"})

	CheckoutLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_latency_seconds",
		Help:    "Latency of checkout transactions",
		Buckets: prometheus.DefBuckets,
	})

	AssistantRequestLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "assistant_request_latency_seconds",
		Help:    "Latency of shopping assistant calls including retries",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
