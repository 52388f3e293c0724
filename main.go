package main

import "github.com/enabling-languages/vernacular/cmd"

func main() {
	cmd.Execute()
}
