package report

import "fmt"

func Print() {
	m := map[string]int{"ubary": 1}
	for denom, amount := range m {
		fmt.Println(denom, amount)
	}
}
