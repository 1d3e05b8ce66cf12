package did

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var didConversions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "hippo_did_conversions_total",
	Help: "Total number of public key / identifier conversions",
}, []string{"direction", "result"})

var mrResolvedDidsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "hippo_did_resolved_total",
	Help: "Total number of DIDs resolved",
}, []string{"resolver"})
