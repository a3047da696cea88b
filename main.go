package main

import "github.com/Digital-Shane/caption-tidy/internal/cmd"

func main() {
	cmd.Execute()
}
