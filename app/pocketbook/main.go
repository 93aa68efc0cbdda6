package main

import (
	"fmt"
	"os"

	"github.com/pocketbook/pocketbook/app/panichandler"
	"github.com/pocketbook/pocketbook/app/pocketbook/cmd"
)

func main() {
	defer panichandler.RecoverWithCallback("main", func() {
		fmt.Fprintln(os.Stderr, "❌ pocketbook crashed, details are in panic.log")
		os.Exit(2)
	})
	cmd.Execute()
}
