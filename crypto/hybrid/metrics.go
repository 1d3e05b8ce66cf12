package hybrid

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var hybridOps = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "hippo_hybrid_operations_total",
	Help: "Number of hybrid encrypt and decrypt operations, by result",
}, []string{"op", "result"})
