// Command skeletal-demo runs the skeletal animation demo, headless or in a GLFW window.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
