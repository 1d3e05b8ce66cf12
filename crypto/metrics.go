package crypto

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var signatureVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "hippo_signature_verifications_total",
	Help: "Number of signature verifications which ran to completion, by result",
}, []string{"result"})
