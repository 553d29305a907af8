package main

import "github.com/frahmantamala/project-tracking/cmd"

func main() {
	cmd.Execute()
}
