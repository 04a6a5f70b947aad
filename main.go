package main

import "github.com/dvnet/dvnet/cmd"

func main() {
	cmd.Execute()
}
