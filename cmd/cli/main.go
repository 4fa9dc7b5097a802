// hl7siu - HL7 SIU scheduling message decoder
//
// hl7siu parses HL7 v2 SIU^S12 feeds into normalized appointment records,
// tolerating malformed and mixed input.
package main

import (
	"os"

	"github.com/careops/hl7siu/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
