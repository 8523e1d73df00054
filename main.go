package main

import "github.com/redactyl/sekret/cmd/sekret"

func main() { sekret.Execute() }
