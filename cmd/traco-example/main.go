// Command traco-example runs the two reference conversions: the sample TRACO
// file in the working directory and a hard-coded list of flat rows.
package main

import (
	"fmt"
	"log"

	"github.com/FarzamTP/TRACO-HexBug/internal/traco"
)

var exampleRows = [][]float64{
	{0, 0, 609.1475208527264, 177.84445391353734},
	{0, 1, 822.7252539996302, 92.57577718188634},
	{0, 2, 897.9980055112678, 156.73480170667477},
	{0, 3, 546.1093810385692, 870.4226598045357},
	{1, 0, 583.1608765154604, 97.44827299511995},
	{1, 1, 817.8527581863927, 86.07911609756982},
	{1, 2, 872.8600104439311, 128.31793771751148},
	{1, 3, 436.8137503110175, 858.400140424505},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if _, err := traco.ConvertRoiFile("./traco_example.traco", "example1.csv"); err != nil {
		return fmt.Errorf("example 1: %w", err)
	}
	if _, err := traco.ConvertRows(exampleRows, "example2.csv"); err != nil {
		return fmt.Errorf("example 2: %w", err)
	}
	return nil
}
