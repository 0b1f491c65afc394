// Package logging provides structured JSON logging for rankfuse.
//
// Logs go to stderr by default so fused output on stdout stays clean for
// piping. An optional log file (--log-file) gets size-based rotation. The
// fusion kernel in pkg/rbc never logs; events are emitted only around it.
package logging
