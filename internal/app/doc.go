// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the lifecycle of one run: load the graph
// definition, build and compile it, evaluate records and print vectors. It
// is decoupled from any specific entrypoint like a CLI.
package app
