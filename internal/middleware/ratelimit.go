package middleware

import (
	"fmt"
	"net/http"

	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/kisansathi/assistant/internal/request"
)

const defaultRatelimitRPM = 60

// RateLimit returns middleware that uses ulule/limiter with an in-memory
// store. The assistant runs single-instance next to its data directory, so
// a shared store buys nothing. Uses request.ClientIP for the limit key.
func RateLimit(requestsPerMinute int) (func(http.Handler) http.Handler, error) {
	if requestsPerMinute <= 0 {
		requestsPerMinute = defaultRatelimitRPM
	}
	rate, err := limiter.NewRateFromFormatted(fmt.Sprintf("%d-M", requestsPerMinute))
	if err != nil {
		return nil, err
	}
	instance := limiter.New(memorystore.NewStore(), rate)
	keyGetter := func(r *http.Request) string {
		return request.ClientIP(r)
	}
	mw := stdlibmw.NewMiddleware(instance, stdlibmw.WithKeyGetter(keyGetter))
	return mw.Handler, nil
}
