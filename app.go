package main

import "github.com/masmgr/git-assist/cmd"

func main() {
	cmd.Run()
}
