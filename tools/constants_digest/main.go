package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"

	poseidon2gen "github.com/eon-protocol/poseidon2gen"
	"github.com/eon-protocol/poseidon2gen/config"
	"github.com/eon-protocol/poseidon2gen/field"
)

// Reads a job file (yaml) from stdin and prints the sha256 of the generated
// constant set encoding, then the sha256 of each constant family.
func main() {
	cfg, err := config.Load("-")
	if err != nil {
		log.Fatalln(err)
	}
	job, err := cfg.Job()
	if err != nil {
		log.Fatalln(err)
	}
	set, err := poseidon2gen.GenerateConstants(job.Params, job.Seed)
	if err != nil {
		log.Fatalln(err)
	}
	f := set.Field()

	digest := set.Digest()
	fmt.Println("sha256", "(", "ConstantSet", ")", "=", hex.EncodeToString(digest[:]))

	hasher := sha256.New()
	for _, c := range set.RoundConstants() {
		if _, err := hasher.Write(f.Bytes(c)); err != nil {
			log.Fatalln(err)
		}
	}
	fmt.Println("sha256", "(", "RC", "[", len(set.RoundConstants()), "]", ")", "=", hex.EncodeToString(hasher.Sum(nil)))

	for _, m := range []struct {
		name string
		rows [][]field.Element
	}{
		{"ME", set.ExternalMatrix().Rows()},
		{"MI", set.InternalMatrix().Rows()},
	} {
		hasher.Reset()
		for _, row := range m.rows {
			for _, c := range row {
				if _, err := hasher.Write(f.Bytes(c)); err != nil {
					log.Fatalln(err)
				}
			}
		}
		fmt.Println("sha256", "(", m.name, "[", len(m.rows), "]", ")", "=", hex.EncodeToString(hasher.Sum(nil)))
	}

	external, internal := set.Attempts()
	fmt.Println("attempts", "(", "ME", ")", "=", external)
	fmt.Println("attempts", "(", "MI", ")", "=", internal)
}
