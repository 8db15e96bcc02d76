package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"gallery_admin/internal/metrics"
)

func PrometheusMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		duration := time.Since(start).Seconds()

		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request().Method,
			c.Path(),
			strconv.Itoa(c.Response().Status),
		).Inc()

		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request().Method,
			c.Path(),
		).Observe(duration)

		return err
	}
}
