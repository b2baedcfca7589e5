package main

import "github.com/timvw/powerline-tmux/cmd"

func main() {
	cmd.Execute()
}
