package main

import "github.com/openshelf/openshelf/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
