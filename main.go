package main

import "github.com/kamusis/plagiscan/cmd"

func main() {
	cmd.Execute()
}
