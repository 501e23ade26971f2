package main

import "github.com/selendra/did-wallet/cmd"

func main() {
	cmd.Execute()
}
