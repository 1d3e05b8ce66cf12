package keystore

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var keystoreOps = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "hippo_keystore_operations_total",
	Help: "Number of keystore operations, by result",
}, []string{"op", "result"})

func observe(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrKeyNotFound):
		result = "not_found"
	case errors.Is(err, ErrKeyExists):
		result = "exists"
	case errors.Is(err, ErrInvalidPassphrase):
		result = "bad_passphrase"
	default:
		result = "error"
	}
	keystoreOps.WithLabelValues(op, result).Inc()
}
