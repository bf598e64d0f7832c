package main

import "lonelymovie/cmd"

func main() {
	cmd.Execute()
}
