package main

import "github.com/chrisuehlinger/boxrender/cmd"

func main() {
	cmd.Execute()
}
