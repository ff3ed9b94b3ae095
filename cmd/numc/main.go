// Package main provides the numc command-line tool.
package main

import (
	"log"
)

const version = "v0.1.0-dev"

func main() {
	log.SetFlags(0)
	log.SetPrefix("numc: ")

	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
