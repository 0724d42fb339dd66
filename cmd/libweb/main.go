package main

import "github.com/analluvias/library-api/cmd/libweb/command"

func main() {
	command.Execute()
}
