// Package client implements the interactive wallet application runtime.
//
// It wires the terminal UI, the session and wallet services, and the
// background profile refresh into a single process lifecycle.
package client
