package main

import "github.com/joshgregory42/f1-analysis-2021/cmd"

func main() {
	cmd.Execute()
}
