package main

import "github.com/theirongolddev/bkcost/cmd"

func main() {
	cmd.Execute()
}
