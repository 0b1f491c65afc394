// Package watch provides real-time watching of a fixed set of ranking
// files with automatic debouncing.
//
// fsnotify watches the parent directories of the named files, because
// editors commonly replace files by writing a temporary file and renaming
// it over the original; a watch on the file itself would be lost at that
// point. Events are filtered to the watched set and debounced so a burst
// of writes triggers one refresh.
//
// Usage:
//
//	w, err := watch.New([]string{"bm25.txt", "vector.txt"}, watch.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer w.Stop()
//
//	go func() {
//	    for batch := range w.Events() {
//	        // Reload the changed files and fuse again.
//	        _ = batch
//	    }
//	}()
//
//	if err := w.Run(ctx); err != nil {
//	    return err
//	}
package watch
