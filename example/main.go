package main

import (
	"fmt"

	"github.com/samualtnorman/seroval/internal/envelope"
	"github.com/samualtnorman/seroval/internal/value"
	"github.com/samualtnorman/seroval/pkg/seroval"
)

func main() {
	shared := &value.ObjectValue{Keys: []string{"label"}, Values: []value.Value{value.Str("shared")}}
	graph := &value.ArrayValue{Elements: []value.Value{shared, shared, value.Number(42)}}

	code, err := seroval.Serialize(graph)
	if err != nil {
		fmt.Println("[ERROR]", err)
		return
	}
	fmt.Println(code)

	tagged := &value.ObjectValue{Keys: []string{"name"}, Values: []value.Value{value.Str("tagged")}}
	if err := seroval.Register("example.tagged", tagged); err != nil {
		fmt.Println("[ERROR]", err)
		return
	}
	withRef, err := seroval.Serialize(&value.ArrayValue{Elements: []value.Value{tagged}})
	if err != nil {
		fmt.Println("[ERROR]", err)
		return
	}
	fmt.Println(withRef)

	envJSON, err := seroval.ToJSON(graph)
	if err != nil {
		fmt.Println("[ERROR]", err)
		return
	}
	fmt.Println(envJSON)

	decoded, err := envelope.Decode(envJSON)
	if err != nil {
		fmt.Println("[ERROR]", err)
		return
	}
	fmt.Printf("round-tripped %d top-level elements\n", len(decoded.Tree.A))
}
