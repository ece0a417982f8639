package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/HSouheill/mlm_backoffice/metrics"
)

// RequestLogger logs one line per request and records the HTTP metrics.
// Route templates are used as the path label so ids do not explode the
// series count.
func RequestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Let echo write the error response so the status is final
				c.Error(err)
			}

			elapsed := time.Since(start)
			req := c.Request()
			res := c.Response()
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.ObserveHTTP(req.Method, route, res.Status, elapsed)

			entry := log.WithFields(logrus.Fields{
				"method":    req.Method,
				"path":      req.URL.Path,
				"route":     route,
				"status":    res.Status,
				"latencyMs": elapsed.Milliseconds(),
				"requestId": res.Header().Get(echo.HeaderXRequestID),
				"remote":    c.RealIP(),
			})
			if user := CurrentUser(c); user != nil {
				entry = entry.WithField("userId", user.ID)
			}

			switch {
			case res.Status >= 500:
				entry.WithError(err).Error("request failed")
			case res.Status >= 400:
				entry.Warn("request rejected")
			default:
				entry.Info("request completed")
			}
			return nil
		}
	}
}
