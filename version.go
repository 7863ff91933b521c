package main

// _version is the version of codeblock.
// Release builds set it with -ldflags "-X main._version=...".
var _version = "dev"
