package monitoring

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "warbler_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	LoginSuccess = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warbler_login_success_total",
		Help: "Total successful login attempts",
	})

	LoginFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_login_failure_total",
		Help: "Total failed login attempts",
	}, []string{"reason"})

	SignupSuccess = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warbler_signup_success_total",
		Help: "Total successful signups",
	})

	SignupFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_signup_failure_total",
		Help: "Total failed signups",
	}, []string{"reason"})

	MessagesPosted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warbler_messages_posted_total",
		Help: "Total messages successfully posted",
	})

	UnauthorizedRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warbler_unauthorized_requests_total",
		Help: "Requests rejected by the login gate or an ownership check",
	})
)

func init() {
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(LoginSuccess)
	prometheus.MustRegister(LoginFailure)
	prometheus.MustRegister(SignupSuccess)
	prometheus.MustRegister(SignupFailure)
	prometheus.MustRegister(MessagesPosted)
	prometheus.MustRegister(UnauthorizedRequests)
}

// Middleware records the duration of every request by route pattern and status
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok && !c.Response().Committed {
				status = he.Code
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			RequestDuration.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
