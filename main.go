package main

import "github.com/meysamhadeli/stepdiff/cmd"

func main() {
	cmd.Execute()
}
