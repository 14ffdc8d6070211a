package main

import "github.com/frahmantamala/compliance-tracker/cmd"

func main() {
	cmd.Execute()
}
