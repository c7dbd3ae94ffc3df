package main

import "github.com/pestozap/pestozap-backend/cmd/manage/commands"

func main() {
	commands.Execute()
}
