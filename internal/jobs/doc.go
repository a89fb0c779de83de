// Package jobs holds background work that runs alongside the HTTP server.
//
// Jobs follow one shape: NewXxx(deps, interval), Start to launch the loop
// on its own goroutine, Stop to signal it and wait for it to exit. Start
// and Stop are safe to call more than once.
//
//   - DBMonitor: pings PostgreSQL and rebuilds the pool after a dropped
//     connection.
package jobs
