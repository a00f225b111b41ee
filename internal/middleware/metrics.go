package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts failed Redis commands by command name. Incremented
// by the cache package's client hook.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "postfeed_redis_errors_total",
	Help: "Total number of Redis command errors",
}, []string{"command"})

// StorageRequests counts media provider calls by operation and outcome.
var StorageRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "postfeed_storage_requests_total",
	Help: "Total number of media storage provider requests",
}, []string{"operation", "outcome"})
