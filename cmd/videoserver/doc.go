/*
Videoserver serves video files over HTTP and synchronizes annotation
overlays with browser players.

Usage:

	videoserver [options]

The options are:

	-config path
		YAML configuration file; see package config for the keys
	-addr address
		listen address, overriding server.addr
	-media-dir dir
		video directory, overriding media.dir
	-log-level level
		trace, debug, info, warn or error, overriding log.level
	-help
		print usage

Without an annotation file the server shows a single demo box: a 200x100
rectangle at (1000,500) on a 1920x1080 stream. SIGINT or SIGTERM stops the
server, closing overlay sessions and waiting up to server.shutdown_timeout
for in-flight downloads.
*/
package main
