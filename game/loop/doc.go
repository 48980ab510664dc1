// Package loop provides the fixed-rate timer that drives a game.
//
// A Scheduler calls a function at a fixed interval. TickerScheduler uses real
// time; ManualScheduler only fires when Advance is called. A Runner ties a
// scheduler to an engine: every period it ticks the engine, hands the new
// snapshot to a publish hook (renderer, websocket hub) and cancels itself
// once the game is over.
//
//	sched := loop.NewTickerScheduler()
//	runner := loop.NewRunner(gameEngine, sched, loop.Interval(config.TickRate), publish)
//	runner.Start(ctx)
//	<-runner.Done()
package loop
