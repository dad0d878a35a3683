// Package harness runs generation scenarios and checks their output.
//
// A scenario is a YAML file holding an inline generation config, a seed,
// a trial count and a list of assertions:
//
//	name: pin_digits
//	description: four distinct digits
//	seed: 42
//	trials: 20
//	config:
//	  length: 4
//	  rules:
//	    - kind: number_range
//	      min: 0
//	      max: 9
//	    - kind: no_duplicate
//	assertions:
//	  - type: status
//	    status: Success
//	  - type: unique
//
// Every trial runs against one engine seeded from the scenario, so a
// scenario is fully reproducible and can be snapshotted with RunWithGolden.
//
// Supported assertion types: status, length, unique, range, parity,
// not_equal, duplicate_occurs.
package harness
