package sns

import "github.com/prometheus/client_golang/prometheus"

// PublishTotal counts publish attempts by recipient kind and outcome.
var PublishTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "snsalert",
		Subsystem: "sns",
		Name:      "publish_total",
		Help:      "Number of SNS publish attempts by recipient kind and result.",
	},
	[]string{"recipient", "result"},
)

func observePublish(r Recipient, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	PublishTotal.WithLabelValues(r.Kind.String(), result).Inc()
}
