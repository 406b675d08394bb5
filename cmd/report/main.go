package main

import "github.com/project-tktt/empleos-bot/cmd/report/cmd"

func main() {
	cmd.Execute()
}
