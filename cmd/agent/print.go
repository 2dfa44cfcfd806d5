package main

import (
	"encoding/json"
	"fmt"
)

func printJSON(v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}
