package main

import "github.com/sjzsdu/projview/cmd"

func main() {
	cmd.Execute()
}
