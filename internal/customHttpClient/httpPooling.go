package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/akolanti/ContractAPI/internal/config"
)

var customTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var once sync.Once
var pooled *http.Client

// GetClient returns the process-wide client the embedding and generation providers share, so
// calls to the same API host reuse connections.
func GetClient() *http.Client {
	once.Do(func() {
		pooled = &http.Client{Transport: customTransport}
	})
	return pooled
}
