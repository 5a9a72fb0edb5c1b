package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/iconfont/pkg/format"
	"github.com/matzehuels/iconfont/pkg/render/nodelink"
)

func ExampleToDOT() {
	dot := nodelink.ToDOT(format.Default(), nodelink.Options{})

	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "svg" -> "ttf";
	// "ttf" -> "woff";
	// "ttf" -> "woff2";
	// "ttf" -> "eot";
}
