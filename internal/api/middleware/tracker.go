package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/wowlabz/accounts-api/internal/core/domain"
	"github.com/wowlabz/accounts-api/internal/core/ports"
	"github.com/wowlabz/accounts-api/internal/core/service"
	"github.com/wowlabz/accounts-api/internal/jobs"
)

// Tracker counts requests per (user, ip, route) in the request_tracker
// collection. The counter upsert runs in the background and never blocks
// or fails the request. The user id is a best-effort decode of the bearer
// token; anonymous requests are tracked with an empty user id.
func Tracker(store ports.DataStore, tokens *service.TokenManager, queue jobs.Queue) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := trackedUserID(c, tokens)
			ip := clientIP(c)
			path := c.Request().Method + ":" + c.Request().URL.Path

			queue.Enqueue(jobs.Job{
				Key:  ip,
				Name: "request_tracker",
				Fn: func(ctx context.Context) error {
					_, err := store.UpdateOne(ctx, domain.CollectionRequestTracker, ports.UpdateOp{
						Filter: ports.Document{"user_id": userID, "ip": ip, "path": path},
						Update: ports.Document{"$inc": bson.M{"count": 1}},
						Upsert: true,
					}, nil)
					return err
				},
			})

			return next(c)
		}
	}
}

func trackedUserID(c echo.Context, tokens *service.TokenManager) string {
	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	claims, err := tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		return ""
	}
	return claims.UserID
}

func clientIP(c echo.Context) string {
	if forwarded := c.Request().Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	return c.RealIP()
}
