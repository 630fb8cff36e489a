package main

import (
	"AgeGenderDetector/cmd/app/cmd"
)

func main() {
	cmd.Execute()
}
