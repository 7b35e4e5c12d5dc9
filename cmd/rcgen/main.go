package main

import "github.com/santiagomed/rcgen/cli"

func main() {
	cli.Execute()
}
