// Package httpserver runs an HTTP handler with graceful shutdown and health
// probes.
//
// Server listens on Config.Addr (or a listener supplied with WithListener)
// and serves until its context is cancelled. It then stops accepting
// connections and waits up to Config.ShutdownTimeout for in-flight requests.
// Signal handling is left to the caller, usually through
// signal.NotifyContext in main.
//
//	srv := httpserver.New(cfg, router, httpserver.WithLogger(log))
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	if err := srv.Run(ctx); err != nil {
//	    return err
//	}
//
// LivenessHandler and ReadinessHandler back the /health/live and
// /health/ready endpoints; readiness runs each Check with a timeout and
// reports 503 when any of them fails.
package httpserver
