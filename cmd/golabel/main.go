package main

import "github.com/philipparndt/golabel/cmd"

func main() {
	cmd.Execute()
}
