package main

import "claude-warehouse/cmd"

func main() {
	cmd.Execute()
}
