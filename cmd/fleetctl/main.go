package main

import "github.com/nfrund/fleetconsole/cmd/fleetctl/cmd"

func main() {
	cmd.Execute()
}
