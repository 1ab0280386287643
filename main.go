package main

import "bcc/cmd"

func main() {
	cmd.Execute()
}
