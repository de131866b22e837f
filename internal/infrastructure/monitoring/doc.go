/*
Package monitoring provides Prometheus metrics for the echo server and the
request client.

# Overview

Every Metrics value owns its registry, so several can coexist in one
process (tests build one per case).

Server side, Middleware records request count, latency and response size
labelled by method and route. Client side, *Metrics satisfies
xhr.Recorder and counts completions by method, format and outcome.

# Usage

	metrics := monitoring.NewMetrics()

	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	client := xhr.New(transport).WithMetrics(metrics)
*/
package monitoring
