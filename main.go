package main

import "github.com/klytics/sheetxml/cmd"

func main() {
	cmd.Execute()
}
