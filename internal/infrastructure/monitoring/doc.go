/*
Package monitoring provides Prometheus metrics for the bridge.

Each Metrics value owns a private registry, so several servers (or tests)
can coexist in one process.

# Metrics

  - HTTP requests (count, latency, sizes) labelled by route template
  - Bridge commands (count, latency, failures by error kind)
  - Tree copies (files, bytes, skipped entries) by operation
  - IPC WebSocket connections and messages
  - Uptime, Go runtime and process collectors

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "filesystem.read")
	// ... run command ...
	timer.Stop(result.Success, result.Kind)
*/
package monitoring
