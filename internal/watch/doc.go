// Package watch polls a project for changes that affect its route table.
//
// The watcher walks the pages directory and the config files on a fixed
// interval and reports every poll that found changes as one batch. Each
// change is classified so that callers can tell page edits from layout or
// configuration edits:
//
//	w := watch.New(watch.Config{
//	    Paths:    watch.CollectPaths(cfg),
//	    Interval: cfg.WatchInterval(),
//	    Classify: watch.ClassifierFor(cfg).Classify,
//	})
//	w.OnChange(func(changes []watch.Change) {
//	    // re-derive
//	})
//	go w.Start(ctx)
package watch
