package main

import (
	"log"

	"github.com/vtrofin/jobsift/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
