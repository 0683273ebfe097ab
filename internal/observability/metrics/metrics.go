package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	AuthRegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Total number of registration and signup completion attempts.",
		},
		[]string{"flow", "result"},
	)

	AuthLoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts.",
		},
		[]string{"flow", "result"},
	)

	TokensIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_tokens_issued_total",
			Help: "Total number of tokens signed, by token type.",
		},
		[]string{"type", "result"},
	)

	OTPIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_issued_total",
			Help: "Total number of one-time code issue attempts.",
		},
		[]string{"purpose", "result"},
	)

	OTPVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_verifications_total",
			Help: "Total number of one-time code verification attempts.",
		},
		[]string{"purpose", "result"},
	)

	LeadsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_created_total",
			Help: "Total number of submitted leads, by lead type.",
		},
		[]string{"lead_type"},
	)
)

// MustRegister registers every collector on the default registry with a
// constant service label.
func MustRegister(serviceName string) {
	MustRegisterWith(prometheus.DefaultRegisterer, serviceName)
}

func MustRegisterWith(reg prometheus.Registerer, serviceName string) {
	prometheus.WrapRegistererWith(prometheus.Labels{"service": serviceName}, reg).MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		AuthRegistrationsTotal,
		AuthLoginsTotal,
		TokensIssuedTotal,
		OTPIssuedTotal,
		OTPVerificationsTotal,
		LeadsCreatedTotal,
	)
}
