package main

import "github.com/frahmantamala/shopfloor-tasks/cmd"

func main() {
	cmd.Execute()
}
