package main

import "github.com/grego360/daily-dashboard/internal/cli"

func main() {
	cli.Execute()
}
