// Package ctxsched schedules tasks onto hardware accelerator contexts.
//
// Contexts are provisioned as regions per numa node, submission mode, task
// type and execution path.  Request streams obtain a scheduling key once and
// then pick a context per task; completions are drained by polling, either
// directly or through a background drainer that publishes batches to a
// queue.
//
//	srv, _ := ctxsched.New(check, ctxsched.WithConfig(cfg))
//	key, _ := srv.Init(nil)
//	index := srv.PickNext(key, model.ModeAsync)
//	count, _ := srv.Poll(ctx, 16)
//	srv.Release()
//
// The policies and their behavior are described in package policy.
package ctxsched
