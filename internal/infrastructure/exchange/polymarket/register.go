package polymarket

import (
	"time"

	"pmwatch/internal/application/port"
	"pmwatch/internal/infrastructure/source"
)

const SourceName = "polymarket"

func init() {
	source.Register(SourceName, func(baseURL string, timeout time.Duration) port.ActivitySource {
		return NewActivityClient(baseURL, timeout)
	})
}
