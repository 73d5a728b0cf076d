package main

import (
	"github.com/poikilos/anewcommit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		cmd.Die(err)
	}
}
