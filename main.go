package main

import "github.com/nova-engine/nova/tools/novabuild/cmd"

func main() {
	cmd.Execute()
}
