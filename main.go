package main

import "github.com/costwatch/costwatch/cmd"

func main() {
	cmd.Execute()
}
