// Command roster-gen writes a synthetic roster file that the engine can load
// through roster_file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/okian/ringside/internal/adapters/roster"
	"github.com/okian/ringside/internal/domain/random"
)

const defaultRosterSize = 40

func main() {
	var (
		size   = flag.Int("n", defaultRosterSize, "Number of performers to generate")
		brand  = flag.String("brand", "", "Brand id stamped on every performer (empty leaves it to the loader)")
		seed   = flag.Int64("seed", 0, "Seed for reproducible rosters (0 picks one)")
		output = flag.String("output", "roster.yaml", "Output file; - writes to stdout")
	)
	flag.Parse()

	if err := run(*size, *brand, *seed, *output); err != nil {
		os.Stderr.WriteString("roster-gen: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(size int, brand string, seed int64, output string) error {
	if size < 1 {
		return fmt.Errorf("n must be positive, got %d", size)
	}
	if seed == 0 {
		s, err := random.NewSeed()
		if err != nil {
			return err
		}
		seed = s
	}

	performers := roster.Generate(random.New(seed), size, brand)

	if output == "-" {
		out, err := roster.Marshal(performers)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := roster.Write(output, performers); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %d performers to %s (seed %d)\n", len(performers), output, seed)
	return nil
}
