package pedersen

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var pedersenReveals = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "hippo_pedersen_reveals_total",
	Help: "Number of commitment reveal checks, by result",
}, []string{"result"})
