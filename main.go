package main

import "jirahour/cmd"

func main() {
	cmd.Execute()
}
