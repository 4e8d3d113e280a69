package main

import "dbkit/cmd"

func main() {
	cmd.Execute()
}
