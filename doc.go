// Package dispatchor provides a resource-constrained, priority-ordered,
// multi-queue request dispatcher.
//
// A dispatcher setup consists of independent services, each backed by a pool
// of workers with finite, replenishable capacity. A request declares a
// resource demand and is admitted to the first worker, in fixed priority
// order, whose available capacity covers it:
//
//   - dispatcher – per-service admission loop with forced-wait retries
//   - executor   – per-worker execution engine crediting capacity back
//   - pool       – priority-ordered workers with capacity accounting
//   - messaging  – request and execution queues
//
// End-users typically interact with the dispatcher via the high-level
// Service façade exposed by the root package:
//
//	srv, _ := dispatchor.New(dispatchor.WithConfig(cfg))
//	rt := srv.Runtime()
//	_ = rt.Start(ctx)
//	_, _ = rt.Submit(ctx, 0, 5)
//	_ = rt.Shutdown(ctx)
//	report, _ := rt.Report(ctx)
package dispatchor
