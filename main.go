package main

import "github.com/madferreiro/collumn-predictor/cmd"

func main() {
	cmd.Execute()
}
