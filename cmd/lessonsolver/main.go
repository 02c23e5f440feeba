// Command lessonsolver is the CLI surface over the scheduling solver
// and fixture generator: solve/validate/count drive the engine
// directly against a single test case, while generate-scaled-fixtures,
// generate-extreme-fixtures, and analyze-fixtures drive the test-case
// generator and the fixture catalog.
package main

func main() {
	Execute()
}
