package main

import "github.com/shapestone/shape-burp/internal/cli"

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cli.Execute(version, commit)
}
