package main

import "github.com/kendall-kelly/shopstore/cmd"

func main() {
	cmd.Execute()
}
