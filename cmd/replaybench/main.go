package main

import "context"

func main() {
	root := newRootCommand()
	root.MustExecute(context.Background())
}
