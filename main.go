package main

import "github.com/chrisuehlinger/typeddom/cmd"

func main() {
	cmd.Execute()
}
