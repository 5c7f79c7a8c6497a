// Package cli implements aiopctl, a terminal front-end for the same
// operator and extensions manager the bridge serves.
//
//	aiopctl ls ~/Documents
//	aiopctl cp ./clock ~/backup
//	aiopctl ext install ./clock
//	aiopctl ext install --archive clock.tar.gz
//	aiopctl ext remove clock
//	aiopctl serve --port 8000
package cli
