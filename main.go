package main

import "github.com/ethpandaops/web3-connect/cmd"

func main() {
	cmd.Execute()
}
