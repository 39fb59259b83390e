package main

import "github.com/eon-protocol/poseidon2gen/cmd/poseidon2gen/cmd"

func main() {
	cmd.Execute()
}
