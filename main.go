package main

import "github.com/KaramelBytes/paperlens/cmd"

func main() {
	cmd.Execute()
}
