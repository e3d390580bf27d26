// Package logtail reads the tail of the sqmon log file for the in-app
// diagnostics view.
//
// Read keeps a ring buffer of the last n lines so large log files are
// scanned once without being held in memory. Level pulls the level= field
// out of a logrus text line so the view can color it.
package logtail
