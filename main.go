package main

import "github.com/longkey1/docchat/cmd"

func main() {
	cmd.Execute()
}
