package poseidon2gen

import (
	"log"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/eon-protocol/poseidon2gen/field"
	"github.com/eon-protocol/poseidon2gen/params"
)

const HASH_T = 2
const HASH_RF = 8
const HASH_RP = 56
const HASH_D = 5
const HASH_SEED = "EON_POSEIDON2_HASH_SEED"
const HASH_TAG = "eon"

var FIELD = ecc.BLS12_381.ScalarField()

// HashParameters is the width-2 BLS12-381 instance behind HashCompress.
func HashParameters() params.Parameters {
	return params.Parameters{
		Modulus:       new(big.Int).Set(FIELD),
		Width:         HASH_T,
		Degree:        HASH_D,
		FullRounds:    HASH_RF,
		PartialRounds: HASH_RP,
		DomainTag:     []byte(HASH_TAG),
		Tags:          params.DefaultTags(),
	}
}

var permutation = sync.OnceValue(func() *Permutation {
	set, err := GenerateConstants(HashParameters(), []byte(HASH_SEED))
	if err != nil {
		log.Fatalln(err)
	}
	return NewPermutation(set)
})

// HashPermutation returns the permutation of HashParameters, generated on first use.
func HashPermutation() *Permutation {
	return permutation()
}

func HashCompress(x, y fr.Element) fr.Element {
	h := HashPermutation()
	ret, err := h.Compress(fromFr(h.f, x), fromFr(h.f, y))
	if err != nil {
		log.Fatalln(err)
	}
	return toFr(ret)
}

func HashSum(val ...fr.Element) fr.Element {
	var ret fr.Element
	for _, v := range val {
		ret = HashCompress(ret, v)
	}
	return ret
}

func fromFr(f *field.Field, x fr.Element) field.Element {
	var b big.Int
	x.BigInt(&b)
	return f.Reduce(&b)
}

func toFr(e field.Element) (val fr.Element) {
	val.SetBigInt(e.BigInt())
	return
}
