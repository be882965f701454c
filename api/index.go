package handler

import (
	"context"
	"net/http"
	"rento/config"
	"rento/di"
	"rento/shared/logger"
	"sync"
)

var (
	once    sync.Once
	handler http.Handler
)

// Handler is the serverless entrypoint. The routing tree is built on the first request and reused
// while the function instance stays warm. Only the hub runs next to it, the sweeper and the alert
// consumer belong to the long running deployment.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger(cfg.Server.Env)

		logger.SetLogLevel(cfg)

		app := di.InitializeApplication()

		go app.Hub.Run(context.Background())

		handler = app.HTTP.Handler()
	})

	handler.ServeHTTP(w, r)
}
