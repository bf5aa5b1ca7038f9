package main

import "github.com/lunka/luabuild/cmd/luabuild/internal"

func main() {
	internal.Execute()
}
