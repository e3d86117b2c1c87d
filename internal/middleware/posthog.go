package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/treasury_ledger/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health": true,
}

// ledgerEvents gives the financially relevant routes stable event names.
var ledgerEvents = map[string]string{
	"POST /api/v1/treasury-transactions":                utils.EventTreasuryTransactionRecorded,
	"POST /api/v1/documents/:documentID/post":           utils.EventDocumentPosted,
	"POST /api/v1/documents/:documentID/payments":       utils.EventInvoicePaymentRecorded,
	"POST /api/v1/installments/:installmentID/payments": utils.EventInstallmentPaymentRecorded,
	"POST /api/v1/equity-periods/:periodID/close":       utils.EventEquityPeriodClosed,
	"POST /api/v1/installments/overdue-sweep":           utils.EventOverdueSweep,
}

// eventName maps a matched route to its PostHog event.
// Unlisted routes become e.g. "api_v1_partners".
func eventName(method, fullPath string) string {
	if name, ok := ledgerEvents[method+" "+fullPath]; ok {
		return name
	}
	name := strings.TrimPrefix(fullPath, "/")
	return strings.ReplaceAll(name, "/", "_")
}

// PosthogMiddleware creates a Gin middleware handler that tracks API events with PostHog
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		// Empty for unmatched routes
		name := eventName(c.Request.Method, c.FullPath())
		if name == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		}
		if len(c.Params) > 0 {
			params := make(map[string]string)
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		posthogClient.Enqueue(userID, name, props)
	}
}
