// Package topic provides hierarchical, dot-separated event topics with
// wildcard matching.
//
//	history.*   matches history.recorded, history.undone
//	**          matches every topic
//	*.reloaded  matches config.reloaded
package topic
