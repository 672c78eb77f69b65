package main

import "github.com/frahmantamala/tenant-management/cmd"

func main() {
	cmd.Execute()
}
