package keeper

import (
	"fmt"
	"maps"

	"farmstate/deterministicmap"
)

type balances map[string]int

func Totals() {
	m := map[string]int{"ubary": 1}
	for denom, amount := range m { // want "ranging over map is forbidden"
		fmt.Println(denom, amount)
	}

	b := balances{"uvic": 2}
	for denom := range b { // want "ranging over map is forbidden"
		fmt.Println(denom)
	}

	for denom := range maps.Keys(m) { // want "maps.Keys iterates in nondeterministic order"
		fmt.Println(denom)
	}

	sorted := deterministicmap.Map[string, int]{"ubary": 1}
	for denom := range sorted {
		fmt.Println(denom)
	}

	for _, denom := range []string{"ubary", "uvic"} {
		fmt.Println(m[denom])
	}
}
