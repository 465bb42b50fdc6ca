package main

import "github.com/vrlkz/arcurate/cmd"

func main() {
	cmd.Execute()
}
