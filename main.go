// coractl bootstraps the Cora insurance dApp environment.
//
// It provisions the publisher account, funds it from the network faucet,
// and compiles and publishes the Move contract package with the derived
// named address.
package main

import "github.com/gungunjain36/coractl/cmd"

func main() {
	cmd.Execute()
}
